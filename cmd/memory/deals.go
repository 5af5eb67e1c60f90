package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-memory/internal/games/memory"
)

var flagDealsDir string

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "List fixed card layouts",
	Long: `Shows the deal files found in the deals directory.

A deal is a YAML file with a square grid of symbols, each appearing twice:

  id: corners
  name: Corners
  rows:
    - [1, 2, 2, 1]
    - [3, 4, 4, 3]
    - [5, 6, 6, 5]
    - [7, 8, 8, 7]

Play one with 'memory play --deal <id or path>'.`,
	Args: cobra.NoArgs,
	Run:  runDeals,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDealsDir, "deals-dir", "~/.memory/deals", "Directory holding deal files")
	rootCmd.AddCommand(dealsCmd)
}

func runDeals(_ *cobra.Command, _ []string) {
	deals, err := memory.LoadDeals(dealsDir())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(deals) == 0 {
		fmt.Printf("No deals found in %s.\n", dealsDir())
		return
	}

	fmt.Println("Available deals:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, d := range deals {
		if len(d.ID) > maxIDLen {
			maxIDLen = len(d.ID)
		}
	}

	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "ID", "Board", "Name")
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "--", "-----", "----")
	for _, d := range deals {
		fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, d.ID, fmt.Sprintf("%dx%d", d.Size, d.Size), d.Name)
	}

	fmt.Println()
	fmt.Println("Run 'memory play --player <name> --deal <id>' to play one.")
}

// dealsDir returns the deals directory with ~ expanded.
func dealsDir() string {
	dir := flagDealsDir
	if dir != "" && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return dir
}
