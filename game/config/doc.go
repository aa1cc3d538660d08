// Package config provides configuration management for Simon Says.
//
// The config package handles:
//   - Loading level configurations from JSON files
//   - Configuration validation and verification
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Level configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - An ASCII layout using character mapping (. = basic, # = wall,
//     I = ice, R/L = rotators, F = finish, E/S/W/N = starts with facing)
//   - The allowed action vocabulary and the plan length limit
//   - Optional challenge thresholds for scoring finished runs
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	levelConfig, err := manager.LoadConfig("first-steps")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// Validation:
//
// All configurations are validated for legal layout characters, at least
// one start and one finish tile, a valid action vocabulary, and a plan
// limit within bounds. Invalid configs are skipped by ListConfigs and
// rejected by LoadConfig and SaveConfig.
package config
