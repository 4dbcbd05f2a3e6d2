// Package cmd implements the weekgrid CLI commands.
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/filelock"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/store"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "weekgrid",
	Short: "Weekly task scheduler for the terminal",
	Long: `weekgrid keeps a week of named, categorized tasks, one per day and hour.
Run weekgrid without a subcommand to open the interactive board, or use the
subcommands to script it.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to weekgrid board directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "print debug diagnostics to stderr")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the board directory: --dir, else the nearest weekgrid/
// above the working directory, else ~/.config/weekgrid.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}

	return config.HomeDir()
}

// loadConfig finds and loads the board config. The per-user board in
// ~/.config/weekgrid is created with defaults on first use.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		homeDir, homeErr := config.HomeDir()
		if homeErr != nil || dir != homeDir {
			return nil, clierr.New(clierr.BoardNotFound, err.Error()).
				WithDetails(map[string]any{"dir": dir})
		}
		cfg, err = config.Init(homeDir, config.NewDefault("weekgrid"))
	}
	if err != nil {
		return nil, err
	}

	output.SetCategoryColors(cfg.CategoryColors())
	return cfg, nil
}

// newLogger returns the debug logger: a text handler on stderr with
// --verbose, a discarding one otherwise.
func newLogger() *slog.Logger {
	if !flagVerbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openManager builds a schedule manager over the board's data directory and
// loads the persisted collection.
func openManager(cfg *config.Config, opts ...schedule.Option) (*schedule.Manager, error) {
	st, err := store.NewFileStore(cfg.DataPath())
	if err != nil {
		return nil, err
	}

	opts = append([]schedule.Option{
		schedule.WithKey(cfg.StorageKey()),
		schedule.WithLogger(newLogger()),
	}, opts...)
	mgr := schedule.New(st, cfg.Rules(), opts...)
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	return mgr, nil
}

// withManager runs fn against a freshly loaded manager while holding the
// board lock, so a concurrent command cannot interleave its read and write.
func withManager(cfg *config.Config, fn func(*schedule.Manager) error) error {
	return filelock.With(filepath.Join(cfg.Dir(), ".lock"), func() error {
		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		return fn(mgr)
	})
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// logActivity appends an entry to the activity log. Errors are silently
// discarded because logging should never fail a command.
func logActivity(cfg *config.Config, action, taskID, detail string) {
	board.LogMutation(cfg.Dir(), action, taskID, detail)
}

// confirm asks a yes/no question on stderr. It refuses to prompt when stdin
// is not a terminal.
func confirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}

// parseRefs splits comma-separated task references, dropping blanks and
// duplicates.
func parseRefs(arg string) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(arg, ",") {
		ref := strings.TrimSpace(part)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

// runBatch executes fn for each record and collects results. Returns a
// SilentError with exit code 1 if any operation failed (after outputting
// results).
func runBatch(names []string, fn func(i int) (id string, err error)) error {
	results := make([]output.BatchResult, 0, len(names))
	anyFailed := false

	for i, name := range names {
		id, err := fn(i)
		r := output.BatchResult{Record: i + 1, Name: name, ID: id, OK: err == nil}
		if err != nil {
			anyFailed = true
			r.Error = err.Error()
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				r.Code = cliErr.Code
			}
		}
		results = append(results, r)
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: record %d (%s): %s\n", r.Record, r.Name, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(names))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
