package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Add tasks from a JSON, YAML or TOML file",
	Long: `Creates one task per record of FILE. The format follows the file extension
(.json, .yaml/.yml, .toml) unless --format is given. Records get fresh ids;
records without a category get the board default.

Every record is checked like a create: records that fail validation or hit
an occupied slot are reported and skipped, and the command exits with 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringP("format", "f", "", "input format ("+strings.Join(task.Formats, ", ")+")")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		var err error
		if format, err = task.FormatFromPath(path); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied import file
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	records, err := task.Unmarshal(data, strings.ToLower(format))
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}

	return withManager(cfg, func(mgr *schedule.Manager) error {
		return runBatch(names, func(i int) (string, error) {
			r := records[i]
			if r.Category == "" {
				r.Category = cfg.Defaults.Category
			}
			created, err := mgr.Create(r.Name, r.Day, r.Hour, r.Category)
			if err != nil {
				return "", err
			}
			logActivity(cfg, "import", created.ID, created.Name)
			return created.ID, nil
		})
	})
}
