package memory

import (
	"errors"
	"math/rand"
	"testing"
)

func TestGenerateRejectsOddSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, size := range []int{-2, 0, 1, 3, 5} {
		if _, err := Generate(size, rng); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Generate(%d) error = %v, want ErrInvalidConfiguration", size, err)
		}
	}
}

func TestGenerateEverySymbolTwice(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, size := range []int{2, 4, 6, 8} {
		for i := 0; i < 1000; i++ {
			b, err := Generate(size, rng)
			if err != nil {
				t.Fatalf("Generate(%d) failed: %v", size, err)
			}

			counts := make(map[int]int)
			for _, c := range b.Cells() {
				counts[c.Symbol]++
				if c.Status != StatusHidden {
					t.Fatalf("fresh cell %s is %s", c.Pos, c.Status)
				}
			}
			if len(counts) != size*size/2 {
				t.Fatalf("size %d: %d distinct symbols, want %d", size, len(counts), size*size/2)
			}
			for sym, n := range counts {
				if sym < 1 || sym > size*size/2 {
					t.Fatalf("size %d: symbol %d out of range", size, sym)
				}
				if n != 2 {
					t.Fatalf("size %d: symbol %d appears %d times", size, sym, n)
				}
			}
		}
	}
}

func TestGeneratePositionsAreUniform(t *testing.T) {
	const (
		size   = 4
		trials = 20000
	)
	rng := rand.New(rand.NewSource(7))
	hits := make([]int, size*size)

	for i := 0; i < trials; i++ {
		b, err := Generate(size, rng)
		if err != nil {
			t.Fatal(err)
		}
		for idx, c := range b.Cells() {
			if c.Symbol == 1 {
				hits[idx]++
			}
		}
	}

	// Symbol 1 fills 2 of 16 cells each deal
	expected := float64(trials*2) / float64(size*size)
	for idx, n := range hits {
		dev := (float64(n) - expected) / expected
		if dev > 0.15 || dev < -0.15 {
			t.Errorf("cell %d holds symbol 1 %d times, expected about %.0f", idx, n, expected)
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	a, _ := Generate(4, rand.New(rand.NewSource(99)))
	b, _ := Generate(4, rand.New(rand.NewSource(99)))

	ca, cb := a.Cells(), b.Cells()
	for i := range ca {
		if ca[i].Symbol != cb[i].Symbol {
			t.Fatalf("same seed produced different layouts at cell %d", i)
		}
	}
}

func TestNewBoardValidatesLayout(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		symbols []int
		ok      bool
	}{
		{"valid 2x2", 2, []int{1, 2, 2, 1}, true},
		{"odd size", 3, []int{1, 1, 2, 2, 3, 3, 4, 4, 5}, false},
		{"short layout", 2, []int{1, 1, 2}, false},
		{"triple symbol", 2, []int{1, 1, 1, 2}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBoard(tc.size, tc.symbols)
			if tc.ok && err != nil {
				t.Errorf("NewBoard() failed: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("NewBoard() error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}
