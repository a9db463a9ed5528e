package engine

import "github.com/wricardo/mcp-training/anchor/game/puzzle"

// PuzzleConfig represents a puzzle definition loaded from JSON or YAML
type PuzzleConfig struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Layout      []string `json:"layout" yaml:"layout"`
	Messages    Messages `json:"messages" yaml:"messages"`
}

// Messages are the player-facing texts of a puzzle. Empty fields fall back
// to built-in defaults.
type Messages struct {
	Welcome        string `json:"welcome,omitempty" yaml:"welcome,omitempty"`
	Moved          string `json:"moved,omitempty" yaml:"moved,omitempty"`
	TokenCollected string `json:"token_collected,omitempty" yaml:"token_collected,omitempty"`
	Blocked        string `json:"blocked,omitempty" yaml:"blocked,omitempty"`
	Solved         string `json:"solved,omitempty" yaml:"solved,omitempty"`
}

// MoveHistoryEntry represents a single slide in the game history
type MoveHistoryEntry struct {
	Direction       string          `json:"direction"`
	FromPosition    puzzle.Position `json:"from_position"`
	ToPosition      puzzle.Position `json:"to_position"`
	TokensCollected int             `json:"tokens_collected"`
	TokensLeft      int             `json:"tokens_left"`
	Moved           bool            `json:"moved"`
	Solved          bool            `json:"solved"`
	Timestamp       int64           `json:"timestamp"`
	MoveNumber      int             `json:"move_number"`
}

// Listener is notified with a snapshot of the current board after every
// board mutation.
type Listener func(board *puzzle.Board)
