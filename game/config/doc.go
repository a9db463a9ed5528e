// Package config provides puzzle configuration management for the Anchor game.
//
// The config package handles:
//   - Loading puzzle definitions from JSON and YAML files
//   - Validation through engine.ValidatePuzzleConfig
//   - Default puzzle selection
//   - Puzzle discovery and listing
//
// Configuration Format:
//
// Each file defines a name, a description, seven layout rows of seven
// characters and optional messages:
//
//	name: Corridors
//	description: Long slides between walls
//	layout:
//	  - "A..T..."
//	  - "BBBBBB."
//	  - "T......"
//	  - ".BBBBBB"
//	  - "......T"
//	  - "BBBBBB."
//	  - "T......"
//
// Layout characters: A anchor (row 1, col 1 only), . empty, B block, T token.
// Row 1, col 1 may also hold a '.' placeholder; the anchor always starts there.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	puzzleConfig, err := manager.LoadConfig("corridors")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// LoadAll loads every file at once and reports all failures together.
package config
