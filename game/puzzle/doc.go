// Package puzzle provides the board model for the Anchor sliding puzzle.
//
// A Board is a fixed 7x7 grid holding exactly one anchor, any number of
// blocks and tokens, and empty cells. The anchor slides in a cardinal
// direction until the next cell is a wall or a block, collecting every
// token it passes over. The puzzle is solved when no tokens remain.
//
// Boards double as nodes of an implicit search graph:
//
//	b, err := puzzle.FromRows([]string{
//		"A..T...",
//		".......",
//		".......",
//		".......",
//		".......",
//		".......",
//		".......",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	next := b.ApplyMove(puzzle.East)
//	next.IsSolution() // true
//
//	seen := map[puzzle.Grid]bool{b.Key(): true}
//	for _, n := range b.Neighbors() {
//		if !seen[n.Key()] {
//			seen[n.Key()] = true
//		}
//	}
//
// ApplyMove and Neighbors never mutate the receiver; Toggle is the only
// in-place edit. The package knows nothing about observers or rendering.
package puzzle
