package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID DAY HOUR",
	Short: "Move a task to another slot",
	Long: `Moves a task to a new day and hour. The target slot must be free.

ID may be the full task id or a unique prefix of at least 4 characters.`,
	Args: cobra.ExactArgs(3), //nolint:mnd // id, day, hour
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := cfg.Rules().ParseSlot(args[1], args[2])
	if err != nil {
		return err
	}

	var (
		from, moved task.Task
		changed     bool
	)
	err = withManager(cfg, func(mgr *schedule.Manager) error {
		t, err := mgr.Resolve(args[0])
		if err != nil {
			return err
		}
		from = t
		moved, changed, err = mgr.Move(t.ID, s.Day, s.Hour)
		return err
	})
	if err != nil {
		return err
	}

	if changed {
		logActivity(cfg, "move", moved.ID, formatSlot(cfg.Rules(), from.Day, from.Hour)+" -> "+
			formatSlot(cfg.Rules(), moved.Day, moved.Hour))
	}
	return printMoved(cfg, moved, changed)
}

func printMoved(cfg *config.Config, t task.Task, changed bool) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"task":    t,
			"changed": changed,
		})
	}
	if !changed {
		output.Messagef(os.Stdout, "Task %s is already at %s",
			output.ShortID(t.ID), formatSlot(cfg.Rules(), t.Day, t.Hour))
		return nil
	}
	output.Messagef(os.Stdout, "Moved task %s: %s -> %s",
		output.ShortID(t.ID), t.Name, formatSlot(cfg.Rules(), t.Day, t.Hour))
	return nil
}
