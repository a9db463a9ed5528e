// Command validate provides a small CLI that validates the puzzle files
// (.json, .yaml, .yml) in a configs directory, ../configs by default. It checks:
//   - file syntax and required fields
//   - a 7x7 layout using only the anchor, block, token and empty characters
//   - the anchor start at row 1, col 1 and at least one token
//   - message templates carrying the right format verbs
//   - an anchor that can slide somewhere from its start
//   - every token lying on some slide path reachable from the start
//   - no two files describing the same starting board
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/anchor/game/config"
	"github.com/wricardo/mcp-training/anchor/game/engine"
	"github.com/wricardo/mcp-training/anchor/game/puzzle"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string

	key puzzle.Grid
}

// validateConfig loads and validates a single puzzle file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	cfg, err := config.ParseFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	board, err := engine.BoardFromConfig(cfg)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid layout: %v", err))
		return result
	}
	result.key = board.Key()

	coverage := validateCoverage(board)
	if !coverage.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, coverage.Errors...)

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", cfg.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", puzzle.Rows, puzzle.Cols))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Tokens: %d", board.Tokens()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Blocks: %d", board.Count(puzzle.Block)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Hash: %016x", board.Hash()))
	}

	return result
}

// validateCoverage walks the slide graph of anchor positions from the start
// and checks every token lies on a cell some slide passes over. Tokens never
// stop the anchor, so only positions matter. This is a necessary condition
// for a puzzle to be solvable, not a solvability proof.
func validateCoverage(board *puzzle.Board) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	blocked := func(row, col int) bool {
		cell, err := board.Cell(row, col)
		return err != nil || cell == puzzle.Block
	}

	start := board.Anchor()
	visited := map[puzzle.Position]bool{start: true}
	covered := map[puzzle.Position]bool{start: true}
	queue := []puzzle.Position{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range puzzle.Directions {
			dRow, dCol := puzzle.Increment(d)
			pos := current
			for !blocked(pos.Row+dRow, pos.Col+dCol) {
				pos = puzzle.Position{Row: pos.Row + dRow, Col: pos.Col + dCol}
				covered[pos] = true
			}
			if !visited[pos] {
				visited[pos] = true
				queue = append(queue, pos)
			}
		}
	}

	if len(visited) == 1 {
		result.Valid = false
		result.Errors = append(result.Errors, "Anchor cannot move from its start position")
		return result
	}

	var unreachable []string
	total := 0
	for row := 0; row < puzzle.Rows; row++ {
		for col := 0; col < puzzle.Cols; col++ {
			if cell, _ := board.Cell(row, col); cell != puzzle.Token {
				continue
			}
			total++
			if !covered[puzzle.Position{Row: row, Col: col}] {
				unreachable = append(unreachable, fmt.Sprintf("Token at (%d,%d)", row, col))
			}
		}
	}

	if len(unreachable) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Coverage failure: %d/%d tokens never passed by the anchor", len(unreachable), total))
		for _, token := range unreachable {
			result.Errors = append(result.Errors, fmt.Sprintf("Unreachable: %s", token))
		}
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Coverage: All %d tokens on a slide path", total))
	}

	return result
}

// validateDir validates every puzzle file in dir and flags files whose
// starting boards are identical.
func validateDir(dir string) ([]ValidationResult, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	firstSeen := make(map[puzzle.Grid]string)
	for _, file := range files {
		result := validateConfig(file)
		if result.Valid {
			if other, dup := firstSeen[result.key]; dup {
				result.Valid = false
				result.Errors = []string{fmt.Sprintf("Duplicate puzzle: same starting board as %s", other)}
			} else {
				firstSeen[result.key] = result.File
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// main validates the puzzle files in the given directory (../configs by
// default), printing a concise report and exiting with non-zero status if
// any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	results, err := validateDir(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All puzzles are valid!")
	} else {
		fmt.Println("❌ Some puzzles have errors")
		os.Exit(1)
	}
}
