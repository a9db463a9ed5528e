package engine

import (
	"fmt"

	"github.com/wricardo/mcp-training/anchor/game/puzzle"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Board state
	GetBoard() *puzzle.Board
	GetOrigin() *puzzle.Board
	GetCell(row, col int) (puzzle.Cell, error)
	IsSolved() bool
	GetMessage() string
	Reset() *puzzle.Board

	// Editing
	Toggle(row, col int) error
	CommitOrigin()

	// Movement operations
	Move(direction puzzle.Direction) MoveHistoryEntry
	BulkMove(directions []puzzle.Direction) []MoveHistoryEntry
	CanMove(direction puzzle.Direction) bool
	GetPossibleMoves() []puzzle.Direction
	Neighbors() []*puzzle.Board

	// Configuration
	GetConfig() *PuzzleConfig
	SetConfig(config *PuzzleConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
	GetCurrentMoves() int

	// Change notification
	Subscribe(listener Listener) (unsubscribe func())
}

type subscription struct {
	id       int
	listener Listener
}

// GameEngine implements the Engine interface.
// It is not safe for concurrent use; callers serialize access.
type GameEngine struct {
	config       *PuzzleConfig
	messages     Messages
	origin       *puzzle.Board
	board        *puzzle.Board
	message      string
	history      []MoveHistoryEntry
	currentMoves int
	listeners    []subscription
	nextID       int
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *PuzzleConfig) (*GameEngine, error) {
	e := &GameEngine{}
	if err := e.SetConfig(config); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in puzzle
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultPuzzleConfig())
	if err != nil {
		panic(fmt.Sprintf("engine: built-in puzzle is invalid: %v", err))
	}
	return e
}

// GetBoard returns a snapshot of the current board
func (e *GameEngine) GetBoard() *puzzle.Board {
	return e.board.Clone()
}

// GetOrigin returns a snapshot of the board that Reset restores
func (e *GameEngine) GetOrigin() *puzzle.Board {
	return e.origin.Clone()
}

// GetCell returns the cell at (row, col) of the current board
func (e *GameEngine) GetCell(row, col int) (puzzle.Cell, error) {
	return e.board.Cell(row, col)
}

// IsSolved returns whether every token has been collected
func (e *GameEngine) IsSolved() bool {
	return e.board.IsSolution()
}

// GetMessage returns the latest player-facing message
func (e *GameEngine) GetMessage() string {
	return e.message
}

// Reset restores the origin board. Move history is kept.
func (e *GameEngine) Reset() *puzzle.Board {
	e.board = e.origin.Clone()
	e.currentMoves = 0
	e.message = e.messages.Welcome
	e.notify()
	return e.GetBoard()
}

// Toggle edits a cell of the current board. Nothing is notified when the
// edit is rejected.
func (e *GameEngine) Toggle(row, col int) error {
	if err := e.board.Toggle(row, col); err != nil {
		return err
	}
	e.notify()
	return nil
}

// CommitOrigin makes the current board the one Reset restores
func (e *GameEngine) CommitOrigin() {
	e.origin = e.board.Clone()
	e.currentMoves = 0
	e.notify()
}

// Neighbors returns the four neighbor boards of the current board
func (e *GameEngine) Neighbors() []*puzzle.Board {
	return e.board.Neighbors()
}

// CanMove checks if the anchor would move in the specified direction
func (e *GameEngine) CanMove(direction puzzle.Direction) bool {
	return e.board.CanMove(direction)
}

// GetPossibleMoves returns all directions the anchor can slide in
func (e *GameEngine) GetPossibleMoves() []puzzle.Direction {
	var possible []puzzle.Direction
	for _, d := range puzzle.Directions {
		if e.CanMove(d) {
			possible = append(possible, d)
		}
	}
	return possible
}

// GetConfig returns the current puzzle configuration
func (e *GameEngine) GetConfig() *PuzzleConfig {
	return e.config
}

// SetConfig sets a new puzzle configuration and restarts the game
func (e *GameEngine) SetConfig(config *PuzzleConfig) error {
	if err := ValidatePuzzleConfig(config); err != nil {
		return err
	}

	board, err := BoardFromConfig(config)
	if err != nil {
		return fmt.Errorf("failed to build board: %w", err)
	}

	e.config = config
	e.messages = messagesFor(config)
	e.origin = board
	e.board = board.Clone()
	e.message = e.messages.Welcome
	e.history = []MoveHistoryEntry{}
	e.currentMoves = 0
	e.notify()
	return nil
}

// GetCurrentMoves returns the successful slides since the last reset
func (e *GameEngine) GetCurrentMoves() int {
	return e.currentMoves
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// Subscribe registers a listener and returns a function removing it
func (e *GameEngine) Subscribe(listener Listener) func() {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, subscription{id: id, listener: listener})

	return func() {
		for i, s := range e.listeners {
			if s.id == id {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify hands every listener its own snapshot of the current board
func (e *GameEngine) notify() {
	for _, s := range e.listeners {
		s.listener(e.board.Clone())
	}
}
