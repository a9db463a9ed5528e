package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/anchor/game/engine"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// MaxBulkMoves caps the number of moves processed by one BulkMove call
const MaxBulkMoves = 50

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Board Editing
	GetCell(ctx context.Context, sessionID string, row, col int) (*CellInfo, error)
	ToggleCell(ctx context.Context, sessionID string, row, col int) (*BoardView, error)
	CommitBoard(ctx context.Context, sessionID string) (*BoardView, error)

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*BoardView, error)
	Neighbors(ctx context.Context, sessionID string, distinct bool) (*NeighborsResult, error)

	// Game State
	GetBoard(ctx context.Context, sessionID string) (*BoardView, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.PuzzleConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles puzzle configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.PuzzleConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.PuzzleConfig
}

// Notifier is told about every board change of a session
type Notifier interface {
	BoardChanged(sessionID string, view *BoardView)
}

// Session represents an active game session
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.GameEngine
	Config         *engine.PuzzleConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	unsubscribe func()
}
