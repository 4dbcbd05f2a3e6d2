package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every task from the week",
	Long:  `Empties the board. Prompts for confirmation in interactive mode.`,
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	if !yes {
		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		ok, err := confirm(fmt.Sprintf("Are you sure you want to clear all %d tasks?", mgr.Len()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	var removed int
	err = withManager(cfg, func(mgr *schedule.Manager) error {
		removed = mgr.Len()
		return mgr.ClearAll()
	})
	if err != nil {
		return err
	}

	logActivity(cfg, "clear", "", fmt.Sprintf("%d tasks", removed))

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":  "cleared",
			"removed": removed,
		})
	}
	output.Messagef(os.Stdout, "Cleared %d tasks", removed)
	return nil
}
