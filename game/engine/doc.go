// Package engine provides the interactive game logic for the Anchor puzzle.
//
// The engine package wraps a puzzle.Board with everything a playable
// session needs:
//   - An origin board built from a PuzzleConfig and a current board
//   - Maximal-slide moves with a move history
//   - Cell editing (toggle) for building new puzzles
//   - Neighbor expansion of the current board
//   - Change listeners fired after every board mutation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. PuzzleConfig describes a puzzle layout loaded
// from JSON or YAML files.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultPuzzleConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	unsubscribe := gameEngine.Subscribe(func(b *puzzle.Board) {
//		fmt.Println(b)
//	})
//	defer unsubscribe()
//
//	entry := gameEngine.Move(puzzle.East)
//	solved := gameEngine.IsSolved()
//
// Listeners receive a clone of the current board, so they can keep it
// without observing later changes. The puzzle package itself holds no
// references to listeners.
package engine
