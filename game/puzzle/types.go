package puzzle

import (
	"errors"
	"fmt"
	"strings"
)

// Board dimensions are fixed for the Anchor puzzle.
const (
	Rows = 7
	Cols = 7
	Size = Rows * Cols
)

var (
	ErrInvalidLength    = errors.New("invalid cell count")
	ErrOutOfBounds      = errors.New("coordinate out of bounds")
	ErrInvalidToggle    = errors.New("anchor cell cannot be toggled")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidLayout    = errors.New("invalid layout")
)

// Cell is the content of a single grid square
type Cell uint8

const (
	Empty Cell = iota
	Block
	Token
	Anchor
)

// Layout characters used by Rows and ParseRows
const (
	EmptyChar  = '.'
	BlockChar  = 'B'
	TokenChar  = 'T'
	AnchorChar = 'A'
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Block:
		return "block"
	case Token:
		return "token"
	case Anchor:
		return "anchor"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Char returns the layout character for the cell
func (c Cell) Char() byte {
	switch c {
	case Block:
		return BlockChar
	case Token:
		return TokenChar
	case Anchor:
		return AnchorChar
	default:
		return EmptyChar
	}
}

// Valid reports whether c is one of the four known cell kinds
func (c Cell) Valid() bool {
	return c <= Anchor
}

// CellFromChar maps a layout character back to its cell
func CellFromChar(ch byte) (Cell, bool) {
	switch ch {
	case EmptyChar:
		return Empty, true
	case BlockChar:
		return Block, true
	case TokenChar:
		return Token, true
	case AnchorChar:
		return Anchor, true
	}
	return Empty, false
}

// ToggleCell returns the editor successor of c: empty -> block -> token -> empty.
// The anchor has no successor and reports false.
func ToggleCell(c Cell) (Cell, bool) {
	switch c {
	case Empty:
		return Block, true
	case Block:
		return Token, true
	case Token:
		return Empty, true
	}
	return c, false
}

// Direction is one of the four cardinal slide directions
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in neighbor order
var Directions = [...]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Increment returns the unit row/column step for d.
// Unknown directions step nowhere.
func Increment(d Direction) (dRow, dCol int) {
	switch d {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	}
	return 0, 0
}

// ParseDirection accepts compass names, their initials, and the
// up/right/down/left aliases used by arrow-key clients.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n", "up":
		return North, nil
	case "east", "e", "right":
		return East, nil
	case "south", "s", "down":
		return South, nil
	case "west", "w", "left":
		return West, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Position is a row/column coordinate on the board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether (row, col) lies on the board
func InBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

func checkBounds(row, col int) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d board", ErrOutOfBounds, row, col, Rows, Cols)
	}
	return nil
}
