package puzzle

import (
	"fmt"
	"strings"
)

// Grid is the raw cell matrix of a board. It is comparable, so it can be
// used directly as a map key for visited-state tracking.
type Grid [Rows][Cols]Cell

// Board is one configuration of the Anchor puzzle.
//
// The anchor position and the token count are derived from the grid and
// kept in sync by every operation.
type Board struct {
	grid   Grid
	anchor Position
	tokens int
}

// New lays cells out row-major into a new board. Cell (0,0) always becomes
// the anchor whatever value was supplied there, and an anchor found anywhere
// else in the input is dropped to empty.
func New(cells []Cell) (*Board, error) {
	if len(cells) != Size {
		return nil, fmt.Errorf("%w: got %d cells, want %d", ErrInvalidLength, len(cells), Size)
	}

	b := &Board{}
	for i, c := range cells {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: unknown cell %d at index %d", ErrInvalidLayout, uint8(c), i)
		}
		if c == Anchor {
			c = Empty
		}
		b.grid[i/Cols][i%Cols] = c
	}

	b.grid[0][0] = Anchor
	b.anchor = Position{Row: 0, Col: 0}
	b.tokens = b.Count(Token)

	return b, nil
}

// Cell returns the cell at (row, col)
func (b *Board) Cell(row, col int) (Cell, error) {
	if err := checkBounds(row, col); err != nil {
		return Empty, err
	}
	return b.grid[row][col], nil
}

// Toggle advances the cell at (row, col) to its editor successor and keeps
// the token count in step. Toggling the anchor fails with ErrInvalidToggle
// and leaves the board untouched.
func (b *Board) Toggle(row, col int) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	previous := b.grid[row][col]
	current, ok := ToggleCell(previous)
	if !ok {
		return fmt.Errorf("%w: (%d,%d)", ErrInvalidToggle, row, col)
	}
	b.grid[row][col] = current

	if previous == Token {
		b.tokens--
	}
	if current == Token {
		b.tokens++
	}

	return nil
}

// IsSolution reports whether every token has been collected
func (b *Board) IsSolution() bool {
	return b.tokens == 0
}

// Anchor returns the anchor's coordinate
func (b *Board) Anchor() Position {
	return b.anchor
}

// Tokens returns the number of tokens left on the board
func (b *Board) Tokens() int {
	return b.tokens
}

// Count returns how many cells of kind c are on the board
func (b *Board) Count(c Cell) int {
	n := 0
	for _, row := range b.grid {
		for _, cell := range row {
			if cell == c {
				n++
			}
		}
	}
	return n
}

// Clone returns an independent deep copy of the board
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

// Key returns a copy of the grid for use as a map key
func (b *Board) Key() Grid {
	return b.grid
}

// Equal reports whether both boards hold identical grids
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.grid == other.grid
}

// String renders the board as newline separated layout rows
func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}
