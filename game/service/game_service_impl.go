package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/anchor/game/engine"
	"github.com/wricardo/mcp-training/anchor/game/puzzle"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	notifier Notifier

	// mu guards engines and session access times. Every lookup through
	// session touches LastAccessedAt, so it needs the write lock.
	mu sync.RWMutex
}

// Option configures a game service
type Option func(*gameServiceImpl)

// WithNotifier forwards every board change of every session to n
func WithNotifier(n Notifier) Option {
	return func(s *gameServiceImpl) {
		s.notifier = n
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given display name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.PuzzleConfig
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				configIDs := make([]string, 0, len(availableConfigs))
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config '%s' (available: %v): %w", configName, configIDs, err)
			}
			return nil, fmt.Errorf("config '%s': %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.ConfigID = configName
	if sess.ConfigID == "" {
		sess.ConfigID = s.getConfigID(config.Name)
	}
	s.watch(sess)

	return s.sessionInfo(sess), nil
}

// watch subscribes the notifier to the session's engine
func (s *gameServiceImpl) watch(sess *Session) {
	if s.notifier == nil {
		return
	}
	id := sess.ID
	eng := sess.Engine
	sess.unsubscribe = eng.Subscribe(func(b *puzzle.Board) {
		view := NewBoardView(b)
		view.Message = eng.GetMessage()
		view.CurrentMoves = eng.GetCurrentMoves()
		s.notifier.BoardChanged(id, view)
	})
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	if sess.unsubscribe != nil {
		sess.unsubscribe()
		sess.unsubscribe = nil
	}
	return s.sessions.Delete(sess.ID)
}

// GetCell describes one cell of the session's current board
func (s *gameServiceImpl) GetCell(ctx context.Context, sessionID string, row, col int) (*CellInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	cell, err := sess.Engine.GetCell(row, col)
	if err != nil {
		return nil, err
	}

	info := &CellInfo{
		Row:      row,
		Col:      col,
		Cell:     cell.String(),
		Char:     string(cell.Char()),
		IsAnchor: cell == puzzle.Anchor,
		Passable: cell != puzzle.Block,
	}
	if next, ok := puzzle.ToggleCell(cell); ok {
		info.Toggles = true
		info.NextCell = next.String()
	}
	return info, nil
}

// ToggleCell cycles a non-anchor cell through empty, block and token
func (s *gameServiceImpl) ToggleCell(ctx context.Context, sessionID string, row, col int) (*BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.Toggle(row, col); err != nil {
		return nil, fmt.Errorf("toggle (%d,%d): %w", row, col, err)
	}
	return s.boardView(sess), nil
}

// CommitBoard makes the session's current board the one Reset restores
func (s *gameServiceImpl) CommitBoard(ctx context.Context, sessionID string) (*BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.CommitOrigin()
	return s.boardView(sess), nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	d, err := puzzle.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	entry := sess.Engine.Move(d)
	events = append(events, moveEvents(entry, sess.Engine.GetMessage())...)

	return &MoveResult{
		Success: entry.Moved,
		Board:   s.boardView(sess),
		Message: sess.Engine.GetMessage(),
		Events:  events,
		Step:    &entry,
	}, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Steps:          make([]engine.MoveHistoryEntry, 0),
	}

	// Limit moves to prevent abuse
	if len(moves) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		result.StopReasonCode = "truncated"
		moves = moves[:MaxBulkMoves]
	}

	// Every direction is checked before anything is applied
	dirs := make([]puzzle.Direction, 0, len(moves))
	for i, m := range moves {
		d, err := puzzle.ParseDirection(m)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		dirs = append(dirs, d)
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	start := sess.Engine.GetBoard()
	result.StartPos = start.Anchor()
	result.StartTokens = start.Tokens()

	for _, entry := range sess.Engine.BulkMove(dirs) {
		result.Steps = append(result.Steps, entry)
		result.Events = append(result.Events, moveEvents(entry, "")...)
		if entry.Moved {
			result.MovesExecuted++
		} else {
			result.BlockedMoves++
		}
	}

	end := sess.Engine.GetBoard()
	result.EndPos = end.Anchor()
	result.EndTokens = end.Tokens()
	result.TokensCollected = result.StartTokens - result.EndTokens
	result.Success = result.MovesExecuted > 0
	result.Board = s.boardView(sess)
	result.Message = sess.Engine.GetMessage()
	if end.IsSolution() {
		result.StopReasonCode = "solved"
	}

	return result, nil
}

// Reset resets a game session to its origin board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.Reset()
	return s.boardView(sess), nil
}

// Neighbors returns the boards reachable with a single slide
func (s *gameServiceImpl) Neighbors(ctx context.Context, sessionID string, distinct bool) (*NeighborsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	origin := sess.Engine.GetBoard()
	neighbors := sess.Engine.Neighbors()
	seen := make(map[puzzle.Grid]bool, len(neighbors))

	result := &NeighborsResult{
		Origin:    NewBoardView(origin),
		Neighbors: make([]NeighborInfo, 0, len(neighbors)),
		Distinct:  distinct,
	}
	for i, n := range neighbors {
		if distinct {
			key := n.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		result.Neighbors = append(result.Neighbors, NeighborInfo{
			Direction: puzzle.Directions[i].String(),
			Unchanged: n.Equal(origin),
			Board:     NewBoardView(n),
		})
	}
	return result, nil
}

// GetBoard retrieves the current board of a session
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (*BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.boardView(sess), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available puzzle configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific puzzle configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error) {
	return s.configs.LoadConfig(configName)
}

// session looks up a session and refreshes its access time.
// Callers hold s.mu for writing.
func (s *gameServiceImpl) session(id string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	_ = s.sessions.UpdateLastAccessed(sess.ID)
	return sess, nil
}

func (s *gameServiceImpl) boardView(sess *Session) *BoardView {
	view := NewBoardView(sess.Engine.GetBoard())
	view.Message = sess.Engine.GetMessage()
	view.CurrentMoves = sess.Engine.GetCurrentMoves()
	return view
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Board:          s.boardView(sess),
		PuzzleConfig:   sess.Config,
	}
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset to origin board",
		Timestamp: time.Now(),
	}
}

// moveEvents generates events from a recorded slide
func moveEvents(entry engine.MoveHistoryEntry, message string) []GameEvent {
	now := time.Now()

	if !entry.Moved {
		return []GameEvent{{
			Type:      "blocked",
			Message:   fmt.Sprintf("Anchor can't move %s", entry.Direction),
			Timestamp: now,
			Position:  entry.FromPosition,
		}}
	}

	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Slid %s to (%d,%d)", entry.Direction, entry.ToPosition.Row, entry.ToPosition.Col),
		Timestamp: now,
		Position:  entry.ToPosition,
	}}
	if entry.TokensCollected > 0 {
		events = append(events, GameEvent{
			Type:      "token_collected",
			Message:   fmt.Sprintf("Collected %d token(s), %d left", entry.TokensCollected, entry.TokensLeft),
			Timestamp: now,
			Position:  entry.ToPosition,
		})
	}
	if entry.Solved && entry.TokensCollected > 0 {
		if message == "" {
			message = "Puzzle solved"
		}
		events = append(events, GameEvent{
			Type:      "solved",
			Message:   message,
			Timestamp: now,
			Position:  entry.ToPosition,
		})
	}
	return events
}
