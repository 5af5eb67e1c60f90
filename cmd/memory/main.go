// memory is a terminal Memory Match game: flip cards two at a time and find
// every pair before the clock runs out.
//
// Usage:
//
//	memory                   - Start the menu (same as "memory menu")
//	memory menu              - Enter a username and play rounds interactively
//	memory play --player me  - Play a single round directly
//	memory scores            - Show recorded score lines
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible deals
//	--db <path>        - Override the score store path
//	--config <path>    - Load a custom game config YAML
//	--log-file <path>  - Write logs here (default: ~/.memory/memory.log)
//	--verbose          - Log debug events
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogFile string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "memory",
	Short: "Memory Match - find every pair before time runs out",
	Long: `Memory Match is a terminal card-matching game.

Cards are dealt face down on a square grid. Flip two at a time: equal
symbols stay up, different ones flip back. Match every pair before the
countdown ends to record your time.

Available commands:
  menu     - Username prompt, previous scores, and repeated rounds
  play     - Play a single round directly
  scores   - View recorded scores

Examples:
  memory
  memory play --player alice --difficulty hard
  memory scores --top 10`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Score store path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.memory/memory.log", "Log file path (empty disables logging)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log debug events")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
}
