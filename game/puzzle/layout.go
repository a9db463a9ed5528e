package puzzle

import "fmt"

// ParseRows converts Rows layout strings into the flat cell sequence
// accepted by New.
func ParseRows(rows []string) ([]Cell, error) {
	if len(rows) != Rows {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrInvalidLength, len(rows), Rows)
	}

	cells := make([]Cell, 0, Size)
	for r, row := range rows {
		if len(row) != Cols {
			return nil, fmt.Errorf("%w: row %d has %d characters, want %d", ErrInvalidLength, r, len(row), Cols)
		}
		for c := 0; c < len(row); c++ {
			cell, ok := CellFromChar(row[c])
			if !ok {
				return nil, fmt.Errorf("%w: invalid character '%c' at row %d, col %d", ErrInvalidLayout, row[c], r, c)
			}
			cells = append(cells, cell)
		}
	}

	return cells, nil
}

// FromRows builds a board from layout strings
func FromRows(rows []string) (*Board, error) {
	cells, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}
	return New(cells)
}

// Rows renders the grid as layout strings, one per board row
func (b *Board) Rows() []string {
	rows := make([]string, Rows)
	for r := range b.grid {
		line := make([]byte, Cols)
		for c, cell := range b.grid[r] {
			line[c] = cell.Char()
		}
		rows[r] = string(line)
	}
	return rows
}

// Cells returns the grid as a flat row-major sequence
func (b *Board) Cells() []Cell {
	cells := make([]Cell, 0, Size)
	for _, row := range b.grid {
		cells = append(cells, row[:]...)
	}
	return cells
}
