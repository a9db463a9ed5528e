package service

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/anchor/game/engine"
	"github.com/wricardo/mcp-training/anchor/game/puzzle"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string               `json:"id"`
	ConfigName     string               `json:"config_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	Board          *BoardView           `json:"board"`
	PuzzleConfig   *engine.PuzzleConfig `json:"puzzle_config"`
}

// BoardView is the rendered form of a board handed to presentation layers
type BoardView struct {
	Rows          []string        `json:"rows"`
	Anchor        puzzle.Position `json:"anchor"`
	Tokens        int             `json:"tokens"`
	Solved        bool            `json:"solved"`
	Hash          string          `json:"hash"`
	PossibleMoves []string        `json:"possible_moves"`
	Message       string          `json:"message,omitempty"`
	CurrentMoves  int             `json:"current_moves"`
}

// NewBoardView renders b
func NewBoardView(b *puzzle.Board) *BoardView {
	possible := []string{}
	for _, d := range puzzle.Directions {
		if b.CanMove(d) {
			possible = append(possible, d.String())
		}
	}

	return &BoardView{
		Rows:          b.Rows(),
		Anchor:        b.Anchor(),
		Tokens:        b.Tokens(),
		Solved:        b.IsSolution(),
		Hash:          fmt.Sprintf("%016x", b.Hash()),
		PossibleMoves: possible,
	}
}

// CellInfo describes a single cell of the current board
type CellInfo struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Cell     string `json:"cell"`
	Char     string `json:"char"`
	Toggles  bool   `json:"toggles"`
	NextCell string `json:"next_cell,omitempty"`
	IsAnchor bool   `json:"is_anchor"`
	Passable bool   `json:"passable"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success bool                     `json:"success"`
	Board   *BoardView               `json:"board"`
	Message string                   `json:"message"`
	Events  []GameEvent              `json:"events,omitempty"`
	Step    *engine.MoveHistoryEntry `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int                       `json:"moves_executed"`
	RequestedMoves int                       `json:"requested_moves"`
	Success        bool                      `json:"success"`
	Board          *BoardView                `json:"board"`
	Events         []GameEvent               `json:"events"`
	Steps          []engine.MoveHistoryEntry `json:"steps"`
	StopReasonCode string                    `json:"stop_reason_code,omitempty"` // solved|truncated
	Truncated      bool                      `json:"truncated,omitempty"`
	Limit          int                       `json:"limit,omitempty"`

	StartPos        puzzle.Position `json:"start_pos"`
	EndPos          puzzle.Position `json:"end_pos"`
	StartTokens     int             `json:"start_tokens"`
	EndTokens       int             `json:"end_tokens"`
	TokensCollected int             `json:"tokens_collected"`
	BlockedMoves    int             `json:"blocked_moves"`
	Message         string          `json:"message,omitempty"`
}

// NeighborInfo is one neighbor configuration with the direction producing it
type NeighborInfo struct {
	Direction string     `json:"direction"`
	Unchanged bool       `json:"unchanged"`
	Board     *BoardView `json:"board"`
}

// NeighborsResult lists the neighbor configurations of the current board
type NeighborsResult struct {
	Origin    *BoardView     `json:"origin"`
	Neighbors []NeighborInfo `json:"neighbors"`
	Distinct  bool           `json:"distinct"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "blocked", "token_collected", "solved", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  puzzle.Position `json:"position"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a puzzle configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Tokens      int    `json:"tokens"`
	Blocks      int    `json:"blocks"`
}
