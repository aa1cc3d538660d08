// Package session provides session management for Simon Says.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - File-backed persistence of executor snapshots
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session wraps its own cyclic executor: the stored plan, program
// counter, player states and run state all live per session.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. The manager
// ensures IDs are unique and provides collision-resistant generation
// using cryptographic randomness. Lookups are case-insensitive.
//
// Persistence:
//
// FilePersistence stores each session as a JSON file: the config name,
// timestamps, the plan and an executor snapshot (run state, program
// counter, step count, player states). Loading rebuilds the level from
// the named config and restores the snapshot on a fresh executor.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List all active sessions
//	sessions := manager.List()
package session
