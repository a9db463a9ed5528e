package puzzle

// ApplyMove returns a new board with the anchor slid as far as it can go in
// direction d. The slide stops before a block or the edge of the board and
// removes every token the anchor enters. If the first step is blocked the
// result equals the receiver. The receiver is never modified.
func (b *Board) ApplyMove(d Direction) *Board {
	next := b.Clone()

	dRow, dCol := Increment(d)
	if dRow == 0 && dCol == 0 {
		return next
	}

	row, col := next.anchor.Row+dRow, next.anchor.Col+dCol
	for InBounds(row, col) && next.grid[row][col] != Block {
		next.grid[next.anchor.Row][next.anchor.Col] = Empty
		next.anchor = Position{Row: row, Col: col}

		if next.grid[row][col] == Token {
			next.tokens--
		}

		next.grid[row][col] = Anchor
		row, col = row+dRow, col+dCol
	}

	return next
}

// Neighbors returns ApplyMove for each direction in Directions order.
// Results are not filtered or deduplicated: a direction the anchor cannot
// move in yields a board equal to the receiver.
func (b *Board) Neighbors() []*Board {
	neighbors := make([]*Board, 0, len(Directions))
	for _, d := range Directions {
		neighbors = append(neighbors, b.ApplyMove(d))
	}
	return neighbors
}

// CanMove reports whether a slide in direction d would move the anchor
func (b *Board) CanMove(d Direction) bool {
	dRow, dCol := Increment(d)
	if dRow == 0 && dCol == 0 {
		return false
	}
	row, col := b.anchor.Row+dRow, b.anchor.Col+dCol
	return InBounds(row, col) && b.grid[row][col] != Block
}
