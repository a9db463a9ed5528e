package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/anchor/game/engine"
	"github.com/wricardo/mcp-training/anchor/game/puzzle"
)

func twoTokenConfig() *engine.PuzzleConfig {
	return &engine.PuzzleConfig{
		Name:        "Two Tokens",
		Description: "One token east, one token south",
		Layout: []string{
			"A.T....",
			".......",
			".......",
			".......",
			".......",
			"T......",
			"B......",
		},
	}
}

func TestAnalyzeConfig(t *testing.T) {
	a, err := analyzeConfig("two", twoTokenConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a.Tokens != 2 || a.Blocks != 1 || a.Empty != 45 {
		t.Errorf("Expected 2 tokens, 1 block, 45 empty, got %d, %d, %d", a.Tokens, a.Blocks, a.Empty)
	}
	if len(a.Moves) != 2 || a.Moves[0] != puzzle.East || a.Moves[1] != puzzle.South {
		t.Errorf("Expected opening moves [east south], got %v", a.Moves)
	}
	if a.Distinct != 2 {
		t.Errorf("Expected 2 distinct boards, got %d", a.Distinct)
	}
	if a.BestDirection != puzzle.East || a.BestCollected != 1 {
		t.Errorf("Expected east collecting 1, got %s collecting %d", a.BestDirection, a.BestCollected)
	}
	if a.BlockedByStart {
		t.Error("Expected anchor to be able to move")
	}

	board, _ := engine.BoardFromConfig(twoTokenConfig())
	if a.Hash != board.Hash() {
		t.Errorf("Expected start hash %016x, got %016x", board.Hash(), a.Hash)
	}
}

func TestAnalyzeConfig_BoxedStart(t *testing.T) {
	cfg := twoTokenConfig()
	cfg.Layout = []string{
		"AB.T...",
		"B......",
		".......",
		".......",
		".......",
		".......",
		".......",
	}

	a, err := analyzeConfig("boxed", cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !a.BlockedByStart {
		t.Error("Expected boxed start to be reported")
	}

	var buf bytes.Buffer
	printAnalysis(&buf, a)
	if !strings.Contains(buf.String(), "cannot move from its start position") {
		t.Errorf("Expected boxed warning, got %s", buf.String())
	}
}

func TestAnalyzeConfig_InvalidLayout(t *testing.T) {
	cfg := twoTokenConfig()
	cfg.Layout = []string{"A"}

	if _, err := analyzeConfig("bad", cfg); err == nil {
		t.Error("Expected error for short layout")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	yamlPuzzle := `name: Two Tokens
description: One token east, one token south
layout:
  - "A.T...."
  - "......."
  - "......."
  - "......."
  - "......."
  - "T......"
  - "B......"
`
	if err := os.WriteFile(filepath.Join(dir, "two.yaml"), []byte(yamlPuzzle), 0644); err != nil {
		t.Fatalf("Failed to write puzzle: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatalf("Failed to write puzzle: %v", err)
	}

	var buf bytes.Buffer
	if err := run(&buf, dir); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Skipping broken.json",
		"=== Analyzing two.yaml ===",
		"Name: Two Tokens (two)",
		"Tokens: 2, Blocks: 1, Empty: 45",
		"Best Opening: east collects 1 token(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRun_MissingDir(t *testing.T) {
	if err := run(&bytes.Buffer{}, "/non/existent/path"); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestRun_NoValidPuzzles(t *testing.T) {
	if err := run(&bytes.Buffer{}, t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
}
