package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/watcher"
)

var flagWatch bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how busy each day is",
	Long: `Displays the number of tasks per day with a per-category breakdown,
and the category totals for the week.

Use --watch to keep the display live-updating. The stats re-render
automatically whenever the stored tasks change on disk (e.g., from the
interactive board in another terminal). Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the stats on file changes")
}

func runStats(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := renderStats(cfg); err != nil {
		return err
	}

	if !flagWatch {
		return nil
	}

	return watchStats(cfg)
}

func renderStats(cfg *config.Config) error {
	mgr, err := openManager(cfg)
	if err != nil {
		return err
	}

	stats := board.ComputeStats(mgr.Tasks(), mgr.Rules())

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, stats)
	case output.FormatCompact:
		output.StatsCompact(os.Stdout, cfg.Board.Name, stats)
	default:
		output.StatsTable(os.Stdout, cfg.Board.Name, stats)
	}
	return nil
}

func watchStats(cfg *config.Config) error {
	// Watch the stored data and the config file's directory.
	watchPaths := []string{cfg.DataPath(), cfg.Dir()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(watchPaths, func(batch watcher.Batch) {
		clearScreen()
		if batch.Touches(config.ConfigFileName) {
			freshCfg, loadErr := config.Load(cfg.Dir())
			if loadErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: reloading config: %v\n", loadErr)
			} else {
				cfg = freshCfg
				output.SetCategoryColors(cfg.CategoryColors())
			}
		}
		if renderErr := renderStats(cfg); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering stats: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
