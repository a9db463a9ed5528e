package engine

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/anchor/game/puzzle"
)

// Move slides the anchor in the specified direction and records the result.
// A blocked slide is still recorded with Moved set to false.
func (e *GameEngine) Move(direction puzzle.Direction) MoveHistoryEntry {
	prev := e.board
	next := prev.ApplyMove(direction)

	entry := MoveHistoryEntry{
		Direction:       direction.String(),
		FromPosition:    prev.Anchor(),
		ToPosition:      next.Anchor(),
		TokensCollected: prev.Tokens() - next.Tokens(),
		TokensLeft:      next.Tokens(),
		Moved:           prev.Anchor() != next.Anchor(),
		Solved:          next.IsSolution(),
		Timestamp:       time.Now().Unix(),
		MoveNumber:      len(e.history) + 1,
	}

	e.board = next
	if entry.Moved {
		e.currentMoves++
	}
	e.message = e.describe(entry)
	e.history = append(e.history, entry)

	if entry.Moved {
		e.notify()
	}

	return entry
}

// BulkMove executes moves in sequence and stops once the puzzle is solved
func (e *GameEngine) BulkMove(directions []puzzle.Direction) []MoveHistoryEntry {
	results := make([]MoveHistoryEntry, 0, len(directions))

	for _, d := range directions {
		if e.IsSolved() {
			break
		}
		results = append(results, e.Move(d))
	}

	return results
}

// describe builds the player-facing message for a slide
func (e *GameEngine) describe(entry MoveHistoryEntry) string {
	switch {
	case !entry.Moved:
		return fmt.Sprintf(e.messages.Blocked, entry.Direction)
	case entry.Solved && entry.TokensCollected > 0:
		return fmt.Sprintf(e.messages.Solved, e.currentMoves)
	case entry.TokensCollected > 0:
		return fmt.Sprintf(e.messages.TokenCollected, entry.TokensCollected, entry.TokensLeft)
	default:
		return fmt.Sprintf(e.messages.Moved, entry.Direction)
	}
}
