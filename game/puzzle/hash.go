package puzzle

import "math/rand/v2"

// Fixed seed so hashes are stable across processes.
const zobristSeed = 0x416e63686f72

var zobristKeys [Anchor + 1][Size]uint64

func init() {
	rng := rand.New(rand.NewPCG(zobristSeed, zobristSeed>>1))
	for c := range zobristKeys {
		for i := range zobristKeys[c] {
			v := rng.Uint64()
			for v == 0 {
				v = rng.Uint64()
			}
			zobristKeys[c][i] = v
		}
	}
}

// Hash returns a Zobrist hash of the grid. Equal boards always hash alike.
func (b *Board) Hash() uint64 {
	var h uint64
	for r, row := range b.grid {
		for c, cell := range row {
			if cell == Empty {
				continue
			}
			h ^= zobristKeys[cell][r*Cols+c]
		}
	}
	return h
}
