package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/multierr"

	"github.com/wricardo/mcp-training/anchor/game/engine"
)

func createValidConfig() *engine.PuzzleConfig {
	return &engine.PuzzleConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Layout: []string{
			"A..T...",
			".B.....",
			".......",
			"...T...",
			".......",
			"....B..",
			"......T",
		},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.PuzzleConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

const yamlPuzzle = `name: Corridors
description: Long slides between walls
layout:
  - "A..T..."
  - "BBBBBB."
  - "T......"
  - ".BBBBBB"
  - "......T"
  - "BBBBBB."
  - "T......"
messages:
  solved: "Corridors cleared in %d moves"
`

func TestNewManager(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory uses built-in default", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.Name != engine.DefaultPuzzleConfig().Name {
			t.Errorf("Expected built-in default, got %q", defaultConfig.Name)
		}
	})

	t.Run("classic preferred as default", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Alpha"
		writeConfigFile(t, dir, "alpha", other)
		classic := createValidConfig()
		classic.Name = "Classic"
		writeConfigFile(t, dir, "classic", classic)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected Classic default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("first valid file when classic missing", func(t *testing.T) {
		dir := t.TempDir()
		writeRaw(t, dir, "a_broken.json", "{not json")
		other := createValidConfig()
		other.Name = "Beta"
		writeConfigFile(t, dir, "beta", other)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Beta" {
			t.Errorf("Expected Beta default, got %q", manager.GetDefault().Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	easyConfig := createValidConfig()
	easyConfig.Name = "Easy"
	writeConfigFile(t, dir, "easy", easyConfig)
	writeRaw(t, dir, "corridors.yaml", yamlPuzzle)

	invalid := createValidConfig()
	invalid.Layout = invalid.Layout[:2]
	writeConfigFile(t, dir, "invalid", invalid)
	writeRaw(t, dir, "garbled.yml", "layout: [unterminated")

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load json config", func(t *testing.T) {
		config, err := manager.LoadConfig("easy")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected config name 'Easy', got '%s'", config.Name)
		}
	})

	t.Run("load yaml config", func(t *testing.T) {
		config, err := manager.LoadConfig("corridors")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Corridors" {
			t.Errorf("Expected config name 'Corridors', got '%s'", config.Name)
		}
		if config.Messages.Solved != "Corridors cleared in %d moves" {
			t.Errorf("Expected solved message from yaml, got %q", config.Messages.Solved)
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		config, err := manager.LoadConfig("easy.json")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		again, _ := manager.LoadConfig("easy")
		if config != again {
			t.Error("Expected cached config to be shared across name forms")
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := manager.LoadConfig("missing")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		_, err := manager.LoadConfig("../easy")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("garbled yaml", func(t *testing.T) {
		_, err := manager.LoadConfig("garbled")
		if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
			t.Errorf("Expected parse error, got %v", err)
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected syntax error to wrap ErrInvalidConfig, got %v", err)
		}
	})
}

func TestParseFile_SyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "broken.json", `{"name": "x", layout}`)
	writeRaw(t, dir, "broken.yaml", "layout: [unterminated")

	for _, name := range []string{"broken.json", "broken.yaml"} {
		_, err := ParseFile(filepath.Join(dir, name))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestManager_SameIDDifferentExtensions(t *testing.T) {
	dir := t.TempDir()
	jsonConfig := createValidConfig()
	jsonConfig.Name = "From JSON"
	writeConfigFile(t, dir, "x.json", jsonConfig)
	writeRaw(t, dir, "x.yaml", yamlPuzzle)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	fromJSON, err := manager.LoadConfig("x.json")
	if err != nil {
		t.Fatalf("Failed to load x.json: %v", err)
	}
	fromYAML, err := manager.LoadConfig("x.yaml")
	if err != nil {
		t.Fatalf("Failed to load x.yaml: %v", err)
	}
	if fromJSON.Name != "From JSON" {
		t.Errorf("Expected 'From JSON', got %q", fromJSON.Name)
	}
	if fromYAML.Name != "Corridors" {
		t.Errorf("Expected x.yaml to load its own puzzle, got %q", fromYAML.Name)
	}

	bare, _ := manager.LoadConfig("x")
	if bare != fromJSON {
		t.Error("Expected bare id to resolve to x.json")
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 config for id x, got %d", len(configs))
	}
	if configs[0].ConfigID != "x" || configs[0].Filename != "x.json" {
		t.Errorf("Unexpected config info: %+v", configs[0])
	}
}

func TestManager_LoadAll(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "one", createValidConfig())
	writeRaw(t, dir, "two.yaml", yamlPuzzle)
	writeRaw(t, dir, "broken.json", "{")
	writeRaw(t, dir, "empty.yml", "name: x\n")
	writeRaw(t, dir, "notes.txt", "ignored")

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, err := manager.LoadAll()
	if len(loaded) != 2 {
		t.Errorf("Expected 2 loaded configs, got %d", len(loaded))
	}
	if _, ok := loaded["two"]; !ok {
		t.Error("Expected yaml config keyed by id 'two'")
	}

	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("Expected 2 combined errors, got %d: %v", len(errs), err)
	}
	if !strings.Contains(err.Error(), "broken.json") || !strings.Contains(err.Error(), "empty.yml") {
		t.Errorf("Expected errors to name failing files, got %v", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("Expected combined error to wrap ErrInvalidConfig")
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "one", createValidConfig())
	writeRaw(t, dir, "two.yaml", yamlPuzzle)
	writeRaw(t, dir, "broken.json", "{")

	manager, _ := NewManager(dir)

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}

	one := configs[0]
	if one.ConfigID != "one" || one.Filename != "one.json" {
		t.Errorf("Unexpected config info: %+v", one)
	}
	if one.Tokens != 3 {
		t.Errorf("Expected 3 tokens, got %d", one.Tokens)
	}
	if one.Blocks != 2 {
		t.Errorf("Expected 2 blocks, got %d", one.Blocks)
	}
	if configs[1].ConfigID != "two" || configs[1].Name != "Corridors" {
		t.Errorf("Unexpected yaml config info: %+v", configs[1])
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "corridors.yaml", yamlPuzzle)
	manager, _ := NewManager(dir)

	if err := manager.SetDefault("corridors"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().Name != "Corridors" {
		t.Errorf("Expected Corridors default, got %q", manager.GetDefault().Name)
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	config := createValidConfig()
	config.Name = "Before"
	writeConfigFile(t, dir, "classic", config)

	manager, _ := NewManager(dir)
	if manager.GetDefault().Name != "Before" {
		t.Fatalf("Expected Before, got %q", manager.GetDefault().Name)
	}

	config.Name = "After"
	writeConfigFile(t, dir, "classic", config)

	manager.RefreshCache()
	if manager.GetDefault().Name != "After" {
		t.Errorf("Expected After after refresh, got %q", manager.GetDefault().Name)
	}
}

func TestManager_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "shared", createValidConfig())
	manager, _ := NewManager(dir)

	var wg sync.WaitGroup
	results := make([]*engine.PuzzleConfig, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = manager.LoadConfig("shared")
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r == nil || r != results[0] {
			t.Errorf("Result %d differs from first load", i)
		}
	}
}
