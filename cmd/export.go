package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all tasks as JSON, YAML or TOML",
	Long: `Writes every task of the board to stdout, or to a file with --output.
When --format is not given it follows the --output extension, else JSON.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", "", "export format ("+strings.Join(task.Formats, ", ")+")")
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	path, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = task.FormatJSON
		if path != "" {
			if format, err = task.FormatFromPath(path); err != nil {
				return err
			}
		}
	}

	mgr, err := openManager(cfg)
	if err != nil {
		return err
	}

	data, err := task.Marshal(mgr.Tasks(), strings.ToLower(format))
	if err != nil {
		return err
	}

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	const fileMode = 0o600
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "exported",
			"file":   path,
			"format": format,
			"tasks":  mgr.Len(),
		})
	}
	output.Messagef(os.Stderr, "Exported %d tasks to %s", mgr.Len(), path)
	return nil
}
