package puzzle

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func emptyCells() []Cell {
	return make([]Cell, Size)
}

func mustRows(t *testing.T, rows ...string) *Board {
	t.Helper()
	b, err := FromRows(rows)
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	return b
}

// checkInvariants verifies the single-anchor and token-count invariants
func checkInvariants(t *testing.T, b *Board) {
	t.Helper()

	anchors := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			cell, err := b.Cell(r, c)
			if err != nil {
				t.Fatalf("Unexpected error reading (%d,%d): %v", r, c, err)
			}
			if cell == Anchor {
				anchors++
				if b.Anchor() != (Position{Row: r, Col: c}) {
					t.Errorf("Anchor found at (%d,%d) but Anchor() reports %+v", r, c, b.Anchor())
				}
			}
		}
	}
	if anchors != 1 {
		t.Errorf("Expected exactly one anchor, found %d", anchors)
	}
	if b.Tokens() != b.Count(Token) {
		t.Errorf("Token count %d does not match %d token cells", b.Tokens(), b.Count(Token))
	}
}

func TestNew_ForcesAnchorAtOrigin(t *testing.T) {
	for _, c := range []Cell{Empty, Block, Token, Anchor} {
		cells := emptyCells()
		cells[0] = c

		b, err := New(cells)
		if err != nil {
			t.Fatalf("New with %s at origin failed: %v", c, err)
		}

		got, _ := b.Cell(0, 0)
		if got != Anchor {
			t.Errorf("Expected anchor at (0,0) for input %s, got %s", c, got)
		}
		if b.Anchor() != (Position{}) {
			t.Errorf("Expected anchor position (0,0), got %+v", b.Anchor())
		}
		checkInvariants(t, b)
	}
}

func TestNew_CountsTokens(t *testing.T) {
	cells := emptyCells()
	cells[3] = Token
	cells[10] = Token
	cells[48] = Token
	cells[5] = Block

	b, err := New(cells)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if b.Tokens() != 3 {
		t.Errorf("Expected 3 tokens, got %d", b.Tokens())
	}
	if b.IsSolution() {
		t.Error("Expected board with tokens not to be a solution")
	}
}

func TestNew_TokenPlaceholderAtOriginIsNotCounted(t *testing.T) {
	cells := emptyCells()
	cells[0] = Token

	b, err := New(cells)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if b.Tokens() != 0 {
		t.Errorf("Expected overwritten origin token to be dropped, got %d tokens", b.Tokens())
	}
	if !b.IsSolution() {
		t.Error("Expected board without tokens to be a solution")
	}
}

func TestNew_StrayAnchorDropped(t *testing.T) {
	cells := emptyCells()
	cells[24] = Anchor

	b, err := New(cells)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, _ := b.Cell(3, 3)
	if got != Empty {
		t.Errorf("Expected stray anchor at (3,3) to become empty, got %s", got)
	}
	checkInvariants(t, b)
}

func TestNew_InvalidLength(t *testing.T) {
	tests := []int{0, 1, Size - 1, Size + 1, 100}
	for _, n := range tests {
		_, err := New(make([]Cell, n))
		if !errors.Is(err, ErrInvalidLength) {
			t.Errorf("New with %d cells: expected ErrInvalidLength, got %v", n, err)
		}
	}
}

func TestNew_UnknownCell(t *testing.T) {
	cells := emptyCells()
	cells[7] = Cell(42)

	_, err := New(cells)
	if !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("Expected ErrInvalidLayout, got %v", err)
	}
}

func TestCell_OutOfBounds(t *testing.T) {
	b, _ := New(emptyCells())

	coords := [][2]int{{-1, 0}, {0, -1}, {Rows, 0}, {0, Cols}, {100, 100}}
	for _, rc := range coords {
		if _, err := b.Cell(rc[0], rc[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Cell(%d,%d): expected ErrOutOfBounds, got %v", rc[0], rc[1], err)
		}
		if err := b.Toggle(rc[0], rc[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Toggle(%d,%d): expected ErrOutOfBounds, got %v", rc[0], rc[1], err)
		}
	}
}

func TestToggle_Cycle(t *testing.T) {
	b, _ := New(emptyCells())

	expected := []Cell{Block, Token, Empty, Block}
	wantTokens := []int{0, 1, 0, 0}

	for i, want := range expected {
		if err := b.Toggle(2, 4); err != nil {
			t.Fatalf("Toggle %d failed: %v", i, err)
		}
		got, _ := b.Cell(2, 4)
		if got != want {
			t.Errorf("Toggle %d: expected %s, got %s", i, want, got)
		}
		if b.Tokens() != wantTokens[i] {
			t.Errorf("Toggle %d: expected %d tokens, got %d", i, wantTokens[i], b.Tokens())
		}
		checkInvariants(t, b)
	}
}

func TestToggle_AnchorRejected(t *testing.T) {
	b, _ := New(emptyCells())
	before := b.Clone()

	err := b.Toggle(0, 0)
	if !errors.Is(err, ErrInvalidToggle) {
		t.Fatalf("Expected ErrInvalidToggle, got %v", err)
	}
	if !b.Equal(before) {
		t.Error("Expected board to be unchanged after rejected toggle")
	}
	checkInvariants(t, b)
}

func TestToggleCell(t *testing.T) {
	tests := []struct {
		in   Cell
		want Cell
		ok   bool
	}{
		{Empty, Block, true},
		{Block, Token, true},
		{Token, Empty, true},
		{Anchor, Anchor, false},
	}

	for _, tt := range tests {
		got, ok := ToggleCell(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToggleCell(%s) = (%s, %v), expected (%s, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsSolution_MatchesTokenCells(t *testing.T) {
	b, _ := New(emptyCells())
	if !b.IsSolution() {
		t.Error("Expected empty board to be a solution")
	}

	b.Toggle(1, 1)
	b.Toggle(1, 1)
	if b.IsSolution() {
		t.Error("Expected board with a token not to be a solution")
	}

	b.Toggle(1, 1)
	if !b.IsSolution() {
		t.Error("Expected board to be a solution after removing the token")
	}
}

func TestEqualAndHash(t *testing.T) {
	a := mustRows(t,
		"A..T...",
		".B.....",
		".......",
		"...T...",
		".......",
		"....B..",
		"......T",
	)
	b := a.Clone()

	if !a.Equal(b) {
		t.Fatal("Expected clone to equal origin")
	}
	if a.Hash() != b.Hash() {
		t.Errorf("Equal boards hashed differently: %x vs %x", a.Hash(), b.Hash())
	}
	if a.Key() != b.Key() {
		t.Error("Equal boards produced different keys")
	}

	b.Toggle(6, 0)
	if a.Equal(b) {
		t.Error("Expected boards to differ after toggle")
	}
	if a.Hash() == b.Hash() {
		t.Error("Expected different hash after toggle")
	}

	b.Toggle(6, 0)
	b.Toggle(6, 0)
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Error("Expected full toggle cycle to restore equality and hash")
	}
}

func TestEqual_Nil(t *testing.T) {
	var a, b *Board
	if !a.Equal(b) {
		t.Error("Expected two nil boards to be equal")
	}
	c, _ := New(emptyCells())
	if c.Equal(nil) {
		t.Error("Expected board not to equal nil")
	}
}

func TestKey_UsableAsMapKey(t *testing.T) {
	b, _ := New(emptyCells())
	seen := map[Grid]bool{b.Key(): true}

	for _, n := range b.Neighbors() {
		seen[n.Key()] = true
	}

	// (0,0) on an empty board: north and west stay, east and south slide
	if len(seen) != 3 {
		t.Errorf("Expected 3 distinct configurations, got %d", len(seen))
	}
}

func TestClone_Independent(t *testing.T) {
	a, _ := New(emptyCells())
	b := a.Clone()

	b.Toggle(3, 3)
	got, _ := a.Cell(3, 3)
	if got != Empty {
		t.Errorf("Expected origin cell to remain empty, got %s", got)
	}
}

func TestInvariants_RandomWalk(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	b, _ := New(emptyCells())

	for i := 0; i < 2000; i++ {
		if rng.IntN(3) == 0 {
			b = b.ApplyMove(Directions[rng.IntN(len(Directions))])
		} else {
			r, c := rng.IntN(Rows), rng.IntN(Cols)
			err := b.Toggle(r, c)
			if b.Anchor() == (Position{Row: r, Col: c}) {
				if !errors.Is(err, ErrInvalidToggle) {
					t.Fatalf("Expected ErrInvalidToggle on anchor, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("Toggle(%d,%d) failed: %v", r, c, err)
			}
		}
		checkInvariants(t, b)
		if b.IsSolution() != (b.Count(Token) == 0) {
			t.Fatalf("IsSolution()=%v with %d token cells", b.IsSolution(), b.Count(Token))
		}
	}
}
