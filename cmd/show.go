package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mgr, err := openManager(cfg)
	if err != nil {
		return err
	}

	t, err := mgr.Resolve(args[0])
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, mgr.Rules())
	default:
		output.TaskDetail(os.Stdout, t, mgr.Rules())
	}
	return nil
}
