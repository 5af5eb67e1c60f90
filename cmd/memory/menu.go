package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-memory/internal/platform/tui"
)

var flagMenuDifficulty string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the username menu",
	Long: `Start Memory Match in interactive menu mode.

Type a username and press Enter to deal a board. The list below the prompt
shows every recorded win. After a round you return to the menu.

Controls:
  Enter     - Start a round
  Up/Down   - Scroll previous scores
  Tab       - Best times by board size
  Esc       - Quit

Examples:
  memory menu
  memory menu --difficulty easy
  memory menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagMenuDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig(flagMenuDifficulty, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// The name is asked for later; check everything else now
	if err := checkSettings(cfg, "player"); err != nil {
		reportSettingsError(err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(flagLogFile, flagVerbose)
	defer closeLog()

	scores, err := openScores(cfg.Scores)
	if err != nil {
		logger.Warn("could not open score store", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open score store: %v\n", err)
	}
	if scores.close != nil {
		defer scores.close()
	}

	rc := runtimeConfig("")

	for {
		menuResult, err := tui.RunMenu(scores.store, rc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		rc = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(scores.board, rc.ScreenW, rc.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		game := newGame(cfg, scores.store, logger, nil)
		exit, updated, runErr := tui.Run(game, rc)
		game.Wait()
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
			break
		}

		// Carry the latest terminal size back to the menu
		rc.ScreenW, rc.ScreenH = updated.ScreenW, updated.ScreenH
		if exit == tui.ExitQuit {
			break
		}
	}
}
