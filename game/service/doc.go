// Package service provides the business logic layer for Simon Says.
//
// The service package implements:
//   - Multi-session game management
//   - Plan authoring with vocabulary and length enforcement
//   - Run control for the cyclic executor
//   - Exhaustive solving with plan classification
//   - Configuration management and loading
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. ConfigManager manages level configuration loading and
// validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the game engine, providing session isolation, configuration
// management, and business logic orchestration. Each session maintains its
// own executor instance with an independent plan and run state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "first-steps")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Author a plan, then run it
//	plan, err := gameService.AppendAction(ctx, sessionInfo.ID, "forward")
//	run, err := gameService.StartRun(ctx, sessionInfo.ID)
//
// Run Lifecycle:
//
// The executor never stops itself; the service layer reacts to the step
// events instead. A run whose players all finish on the same tick, or
// where any player dies, is stopped by the service, which also scores the
// level's optional challenges on a finished run.
package service
