package memory

import (
	"fmt"
	"math/rand"
)

// Generate builds a shuffled board for a gridSize×gridSize grid.
// Each symbol 1..gridSize²/2 appears exactly twice. The shuffle is a
// Fisher-Yates permutation drawn from rng, so every layout is equally likely.
func Generate(gridSize int, rng *rand.Rand) (*Board, error) {
	if gridSize <= 0 || gridSize%2 != 0 {
		return nil, fmt.Errorf("%w: grid size %d must be positive and even", ErrInvalidConfiguration, gridSize)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfiguration)
	}

	pairs := gridSize * gridSize / 2
	symbols := make([]int, 0, pairs*2)
	for v := 1; v <= pairs; v++ {
		symbols = append(symbols, v, v)
	}

	rng.Shuffle(len(symbols), func(i, j int) {
		symbols[i], symbols[j] = symbols[j], symbols[i]
	})

	return NewBoard(gridSize, symbols)
}
