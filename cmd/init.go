package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new weekly board",
	Long: `Creates a weekgrid directory with config.yml and a data/ subdirectory.

Use --sample to start with a few demo tasks.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (defaults to current directory name)")
	initCmd.Flags().String("hours", "", `start hours, as a range ("9-17") or a list ("8,10,14")`)
	initCmd.Flags().StringSlice("categories", nil, "comma-separated categories, optionally name:#RRGGBB")
	initCmd.Flags().Bool("sample", false, "seed the board with demo tasks")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)

	if hours, _ := cmd.Flags().GetString("hours"); hours != "" {
		parsed, err := slot.ParseHourRange(hours)
		if err != nil {
			return clierr.Newf(clierr.InvalidHour, "invalid --hours: %v", err).
				WithDetails(map[string]any{"input": hours})
		}
		cfg.Hours = parsed
	}

	if categories, _ := cmd.Flags().GetStringSlice("categories"); len(categories) > 0 {
		cfg.Categories = parseCategories(categories)
		cfg.Defaults.Category = cfg.Categories[0].Name
	}

	if _, err := config.Init(absDir, cfg); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return clierr.New(clierr.InvalidInput, err.Error())
		}
		return err
	}

	seeded := 0
	if sample, _ := cmd.Flags().GetBool("sample"); sample {
		err = withManager(cfg, func(mgr *schedule.Manager) error {
			var seedErr error
			seeded, seedErr = mgr.Seed(schedule.DemoTasks)
			return seedErr
		})
		if err != nil {
			return err
		}
		logActivity(cfg, "seed", "", fmt.Sprintf("%d demo tasks", seeded))
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":     "initialized",
			"dir":        absDir,
			"name":       name,
			"config":     cfg.ConfigPath(),
			"data":       cfg.DataPath(),
			"hours":      cfg.Hours,
			"categories": cfg.CategoryNames(),
			"seeded":     seeded,
		})
	}

	output.Messagef(os.Stdout, "Initialized board %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:     %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Data:       %s", cfg.DataPath())
	output.Messagef(os.Stdout, "  Hours:      %s - %s",
		slot.FormatHour(cfg.Hours[0]), slot.FormatHour(cfg.Hours[len(cfg.Hours)-1]))
	output.Messagef(os.Stdout, "  Categories: %s", strings.Join(cfg.CategoryNames(), ", "))
	if seeded > 0 {
		output.Messagef(os.Stdout, "  Seeded %d demo tasks", seeded)
	}
	return nil
}

// parseCategories reads "name" or "name:#RRGGBB" entries. Names that match a
// default category keep its color.
func parseCategories(entries []string) []config.CategoryConfig {
	cats := make([]config.CategoryConfig, 0, len(entries))
	for _, entry := range entries {
		name, color, _ := strings.Cut(strings.TrimSpace(entry), ":")
		if color == "" {
			for _, def := range config.DefaultCategories {
				if def.Name == name {
					color = def.Color
				}
			}
		}
		cats = append(cats, config.CategoryConfig{Name: name, Color: color})
	}
	return cats
}
