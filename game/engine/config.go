package engine

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/anchor/game/puzzle"
)

var defaultMessages = Messages{
	Welcome:        "Slide the anchor to collect every token!",
	Moved:          "Anchor slid %s",
	TokenCollected: "Collected %d token(s), %d left",
	Blocked:        "The anchor can't move %s",
	Solved:         "Solved in %d moves!",
}

// ValidatePuzzleConfig validates a puzzle definition for correctness
func ValidatePuzzleConfig(config *PuzzleConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate layout
	if len(config.Layout) != puzzle.Rows {
		return fmt.Errorf("config validation: layout must have %d rows, got %d", puzzle.Rows, len(config.Layout))
	}

	tokens := 0
	for i, row := range config.Layout {
		if len(row) != puzzle.Cols {
			return fmt.Errorf("config validation: row %d must have %d characters, got %d",
				i+1, puzzle.Cols, len(row))
		}

		for j := 0; j < len(row); j++ {
			cell, ok := puzzle.CellFromChar(row[j])
			if !ok {
				return fmt.Errorf("config validation: invalid character '%c' at row %d, col %d", row[j], i+1, j+1)
			}

			switch {
			case i == 0 && j == 0:
				if cell != puzzle.Anchor && cell != puzzle.Empty {
					return fmt.Errorf("config validation: row 1, col 1 is the anchor start and must be '%c' or '%c'",
						puzzle.AnchorChar, puzzle.EmptyChar)
				}
			case cell == puzzle.Anchor:
				return fmt.Errorf("config validation: anchor '%c' only allowed at row 1, col 1, found at row %d, col %d",
					puzzle.AnchorChar, i+1, j+1)
			case cell == puzzle.Token:
				tokens++
			}
		}
	}

	if tokens == 0 {
		return fmt.Errorf("config validation: layout must contain at least one token (%c)", puzzle.TokenChar)
	}

	// Validate format strings
	if m := config.Messages.Solved; m != "" && !strings.Contains(m, "%d") {
		return fmt.Errorf("config validation: messages.solved must contain %%d for move count")
	}
	if m := config.Messages.Moved; m != "" && !strings.Contains(m, "%s") {
		return fmt.Errorf("config validation: messages.moved must contain %%s for direction")
	}
	if m := config.Messages.Blocked; m != "" && !strings.Contains(m, "%s") {
		return fmt.Errorf("config validation: messages.blocked must contain %%s for direction")
	}
	if m := config.Messages.TokenCollected; m != "" && strings.Count(m, "%d") != 2 {
		return fmt.Errorf("config validation: messages.token_collected must contain two %%d verbs")
	}

	return nil
}

// BoardFromConfig builds the starting board of a puzzle definition
func BoardFromConfig(config *PuzzleConfig) (*puzzle.Board, error) {
	return puzzle.FromRows(config.Layout)
}

// DefaultPuzzleConfig returns the built-in puzzle used when no config
// directory entry is available.
func DefaultPuzzleConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:        "default",
		Description: "Built-in warm-up puzzle",
		Layout: []string{
			"A..T..B",
			".B.....",
			"...B.T.",
			"T......",
			"..B..B.",
			".....T.",
			"B..T...",
		},
	}
}

// messagesFor fills any empty message with its default
func messagesFor(config *PuzzleConfig) Messages {
	m := defaultMessages
	if config == nil {
		return m
	}
	if config.Messages.Welcome != "" {
		m.Welcome = config.Messages.Welcome
	}
	if config.Messages.Moved != "" {
		m.Moved = config.Messages.Moved
	}
	if config.Messages.TokenCollected != "" {
		m.TokenCollected = config.Messages.TokenCollected
	}
	if config.Messages.Blocked != "" {
		m.Blocked = config.Messages.Blocked
	}
	if config.Messages.Solved != "" {
		m.Solved = config.Messages.Solved
	}
	return m
}
