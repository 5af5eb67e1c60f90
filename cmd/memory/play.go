package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-memory/internal/games/memory"
	"github.com/vovakirdan/tui-memory/internal/platform/tui"
)

var (
	flagPlayer     string
	flagDifficulty string
	flagGrid       int
	flagDeal       string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a single round",
	Long: `Start a round directly, skipping the menu.

Controls:
  Arrows/WASD/HJKL - Move the cursor
  Space/Enter      - Flip the card under the cursor
  ?                - Hint: show every card briefly
  R                - Play again (after the round ends)
  Q/Esc            - Abandon the round
  Ctrl+C           - Quit

Difficulty options:
  easy   - Larger time budget, longer hint
  normal - 4x4 board, 60 seconds
  hard   - 6x6 board, short hint

Examples:
  memory play --player alice
  memory play --player alice --difficulty hard
  memory play --player alice --grid 6
  memory play --player alice --deal corners
  memory play --player alice --config ./my-memory.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&flagPlayer, "player", "p", "", "Player name recorded with the score")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().IntVar(&flagGrid, "grid", 0, "Grid size override (positive, even)")
	playCmd.Flags().StringVar(&flagDeal, "deal", "", "Play a fixed layout: deal ID or YAML file path")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig(flagDifficulty, flagGrid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var layout []int
	if flagDeal != "" {
		deal, err := memory.FindDeal(flagDeal, dealsDir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Board.GridSize = deal.Size
		layout = deal.Symbols
	}

	if err := checkSettings(cfg, flagPlayer); err != nil {
		reportSettingsError(err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(flagLogFile, flagVerbose)
	defer closeLog()

	scores, err := openScores(cfg.Scores)
	if err != nil {
		logger.Warn("could not open score store", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open score store: %v\n", err)
		// Continue without storage - game still works
	}

	game := newGame(cfg, scores.store, logger, layout)
	_, _, runErr := tui.Run(game, runtimeConfig(flagPlayer))

	// Let the last score write land before closing the store
	game.Wait()
	if scores.close != nil {
		scores.close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

func reportSettingsError(err error) {
	if errors.Is(err, memory.ErrInvalidConfiguration) {
		fmt.Fprintf(os.Stderr, "Cannot start game: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
