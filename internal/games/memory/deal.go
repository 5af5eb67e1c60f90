package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Deal is a fixed card layout loaded from a file, used for practice boards
// and reproducible rounds.
type Deal struct {
	ID       string
	Name     string
	Size     int
	Symbols  []int // row-major
	FilePath string
}

// yamlDeal is the on-disk shape of a deal file:
//
//	id: corners
//	name: Corners
//	rows:
//	  - [1, 2, 2, 1]
//	  - ...
type yamlDeal struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	Rows [][]int `yaml:"rows"`
}

// ParseDeal parses a YAML deal and checks that it forms a valid board.
func ParseDeal(data []byte) (Deal, error) {
	var yd yamlDeal
	if err := yaml.Unmarshal(data, &yd); err != nil {
		return Deal{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	size := len(yd.Rows)
	symbols := make([]int, 0, size*size)
	for i, row := range yd.Rows {
		if len(row) != size {
			return Deal{}, fmt.Errorf("%w: row %d has %d cards, want %d", ErrInvalidConfiguration, i, len(row), size)
		}
		symbols = append(symbols, row...)
	}
	if _, err := NewBoard(size, symbols); err != nil {
		return Deal{}, err
	}

	return Deal{ID: yd.ID, Name: yd.Name, Size: size, Symbols: symbols}, nil
}

// LoadDeal reads a single deal file.
func LoadDeal(path string) (Deal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deal{}, fmt.Errorf("reading deal %s: %w", path, err)
	}

	deal, err := ParseDeal(data)
	if err != nil {
		return Deal{}, fmt.Errorf("parsing deal %s: %w", path, err)
	}
	if deal.ID == "" {
		deal.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	deal.FilePath = path
	return deal, nil
}

// LoadDeals reads every .yaml/.yml deal under dir, skipping invalid files.
// Results are sorted by ID.
func LoadDeals(dir string) ([]Deal, error) {
	var deals []Deal

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
		default:
			return nil
		}

		deal, err := LoadDeal(path)
		if err != nil {
			return nil
		}
		deals = append(deals, deal)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", dir, err)
	}

	sort.Slice(deals, func(i, j int) bool {
		return deals[i].ID < deals[j].ID
	})
	return deals, nil
}

// FindDeal resolves ref as a file path, or as a deal ID inside dir.
func FindDeal(ref, dir string) (Deal, error) {
	if _, err := os.Stat(ref); err == nil {
		return LoadDeal(ref)
	}

	deals, err := LoadDeals(dir)
	if err != nil {
		return Deal{}, err
	}
	for _, d := range deals {
		if d.ID == ref {
			return d, nil
		}
	}
	return Deal{}, fmt.Errorf("deal not found: %s", ref)
}
