// Command analyze prints quick, human-readable statistics about the puzzle
// files in a configs directory. It summarizes cell counts, the start hash,
// and what a single slide from the start position can achieve.
package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/wricardo/mcp-training/anchor/game/config"
	"github.com/wricardo/mcp-training/anchor/game/engine"
	"github.com/wricardo/mcp-training/anchor/game/puzzle"
)

// Analysis holds the statistics computed for one puzzle
type Analysis struct {
	ConfigID string
	Name     string
	Tokens   int
	Blocks   int
	Empty    int
	Hash     uint64

	// One-slide statistics from the start position
	Moves          []puzzle.Direction
	Distinct       int
	BestDirection  puzzle.Direction
	BestCollected  int
	BlockedByStart bool
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := run(os.Stdout, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, dir string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	// Report broken files up front; ListConfigs skips them
	if _, err := manager.LoadAll(); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintf(w, "Skipping %v\n", e)
		}
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return fmt.Errorf("no valid puzzle files in %s", dir)
	}

	for _, info := range infos {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", info.Filename)

		cfg, err := manager.LoadConfig(info.Filename)
		if err != nil {
			fmt.Fprintf(w, "Error loading puzzle: %v\n", err)
			continue
		}

		a, err := analyzeConfig(info.ConfigID, cfg)
		if err != nil {
			fmt.Fprintf(w, "Error building board: %v\n", err)
			continue
		}
		printAnalysis(w, a)
	}
	return nil
}

func analyzeConfig(id string, cfg *engine.PuzzleConfig) (*Analysis, error) {
	board, err := engine.BoardFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		ConfigID: id,
		Name:     cfg.Name,
		Tokens:   board.Tokens(),
		Blocks:   board.Count(puzzle.Block),
		Empty:    board.Count(puzzle.Empty),
		Hash:     board.Hash(),
	}

	seen := make(map[puzzle.Grid]bool)
	for i, next := range board.Neighbors() {
		d := puzzle.Directions[i]
		if next.Equal(board) {
			continue
		}
		a.Moves = append(a.Moves, d)

		if !seen[next.Key()] {
			seen[next.Key()] = true
			a.Distinct++
		}

		if collected := board.Tokens() - next.Tokens(); collected > a.BestCollected {
			a.BestCollected = collected
			a.BestDirection = d
		}
	}
	a.BlockedByStart = len(a.Moves) == 0

	return a, nil
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s (%s)\n", a.Name, a.ConfigID)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", puzzle.Rows, puzzle.Cols)
	fmt.Fprintf(w, "Tokens: %d, Blocks: %d, Empty: %d\n", a.Tokens, a.Blocks, a.Empty)
	fmt.Fprintf(w, "Start Hash: %016x\n", a.Hash)

	if a.BlockedByStart {
		fmt.Fprintf(w, "⚠️  WARNING: the anchor cannot move from its start position\n")
		return
	}

	fmt.Fprintf(w, "Opening Moves: %v (%d distinct boards)\n", a.Moves, a.Distinct)
	if a.BestCollected > 0 {
		fmt.Fprintf(w, "Best Opening: %s collects %d token(s)\n", a.BestDirection, a.BestCollected)
	} else {
		fmt.Fprintf(w, "No opening slide collects a token\n")
	}
}
