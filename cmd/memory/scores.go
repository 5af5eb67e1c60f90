package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-memory/internal/storage"
)

var (
	flagTop        int
	flagTopGrid    int
	flagStatsOf    string
	flagScoresDiff string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded scores",
	Long: `Print every recorded win, oldest first, in the score log format:

  <username>: <pairs> pairs, Time Taken: <seconds> seconds

With --top, print the fastest wins instead (sqlite backend only).
With --player, print one player's totals (sqlite backend only).

Examples:
  memory scores
  memory scores --top 10
  memory scores --top 5 --grid 6
  memory scores --player alice`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagTop, "top", 0, "Show the N fastest wins")
	scoresCmd.Flags().IntVar(&flagTopGrid, "grid", 0, "Limit --top to one grid size")
	scoresCmd.Flags().StringVar(&flagStatsOf, "player", "", "Show totals for one player")
	scoresCmd.Flags().StringVar(&flagScoresDiff, "difficulty", "", "Difficulty preset used to resolve config")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig(flagScoresDiff, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scores, err := openScores(cfg.Scores)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening score store: %v\n", err)
		os.Exit(1)
	}
	defer scores.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if flagTop > 0 || flagStatsOf != "" {
		if scores.db == nil {
			fmt.Fprintln(os.Stderr, "Error: --top and --player need the sqlite score backend")
			os.Exit(1)
		}
	}

	switch {
	case flagStatsOf != "":
		printStats(ctx, scores.db, flagStatsOf)
	case flagTop > 0:
		printTop(ctx, scores.db, flagTopGrid, flagTop)
	default:
		lines, err := scores.store.ReadAll(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
			os.Exit(1)
		}
		if len(lines) == 0 {
			fmt.Println("No scores recorded yet.")
			fmt.Println()
			fmt.Println("Run 'memory' and clear a board to record the first one!")
			return
		}
		for _, line := range lines {
			fmt.Println(line)
		}
	}
}

func printTop(ctx context.Context, db *storage.Store, grid, limit int) {
	entries, err := db.TopRecords(ctx, grid, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	title := "all boards"
	if grid > 0 {
		title = fmt.Sprintf("%dx%d", grid, grid)
	}
	fmt.Printf("Best Times - %s\n", title)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No wins recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-16s  %-6s  %-5s  %s\n", "Rank", "Player", "Time", "Board", "When")
	fmt.Printf("  %-4s  %-16s  %-6s  %-5s  %s\n", "----", "------", "----", "-----", "----")

	for i, e := range entries {
		fmt.Printf("  %-4d  %-16s  %-6s  %-5s  %s\n",
			i+1,
			e.Player,
			fmt.Sprintf("%ds", e.Seconds),
			fmt.Sprintf("%dx%d", e.GridSize, e.GridSize),
			humanize.Time(e.FinishedAt),
		)
	}
}

func printStats(ctx context.Context, db *storage.Store, player string) {
	stats, err := db.Stats(ctx, player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Player - %s\n", stats.Player)
	fmt.Println()
	if stats.Wins == 0 {
		fmt.Println("No wins recorded yet.")
		return
	}

	fmt.Printf("  Wins:        %s\n", humanize.Comma(int64(stats.Wins)))
	fmt.Printf("  Best time:   %d seconds\n", stats.BestSeconds)
	fmt.Printf("  Average:     %.1f seconds\n", stats.AvgSeconds)
	fmt.Printf("  Last played: %s\n", humanize.Time(stats.LastPlayed))
}
