package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
The task keeps its id. If the new slot is taken, nothing changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("name", "", "new name")
	editCmd.Flags().String("day", "", "new day")
	editCmd.Flags().String("hour", "", "new start hour")
	editCmd.Flags().String("category", "", "new category")
	editCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var before, after task.Task
	err = withManager(cfg, func(mgr *schedule.Manager) error {
		t, err := mgr.Resolve(args[0])
		if err != nil {
			return err
		}
		before = t

		next, err := applyEditFlags(cmd, mgr.Rules(), t)
		if err != nil {
			return err
		}
		after, err = mgr.Edit(t.ID, next.Name, next.Day, next.Hour, next.Category)
		return err
	})
	if err != nil {
		return err
	}

	logActivity(cfg, "edit", after.ID, describeEdit(cfg, before, after))
	return printEdited(cfg, after)
}

// applyEditFlags returns t with every flag the user set applied. It fails
// with NO_CHANGES when no field flag was given.
func applyEditFlags(cmd *cobra.Command, rules task.Rules, t task.Task) (task.Task, error) {
	changed := false
	flags := cmd.Flags()

	if flags.Changed("name") {
		t.Name, _ = flags.GetString("name")
		changed = true
	}
	if flags.Changed("day") {
		v, _ := flags.GetString("day")
		day, err := rules.ParseDay(v)
		if err != nil {
			return t, err
		}
		t.Day = day
		changed = true
	}
	if flags.Changed("hour") {
		v, _ := flags.GetString("hour")
		hour, err := rules.ParseHour(v)
		if err != nil {
			return t, err
		}
		t.Hour = hour
		changed = true
	}
	if flags.Changed("category") {
		t.Category, _ = flags.GetString("category")
		changed = true
	}

	if !changed {
		return t, clierr.New(clierr.NoChanges, "no changes specified")
	}
	return t, nil
}

// describeEdit summarizes the fields that differ for the activity log.
func describeEdit(cfg *config.Config, before, after task.Task) string {
	var parts []string
	if before.Name != after.Name {
		parts = append(parts, fmt.Sprintf("name %q -> %q", before.Name, after.Name))
	}
	if before.Day != after.Day || before.Hour != after.Hour {
		parts = append(parts, "slot "+formatSlot(cfg.Rules(), before.Day, before.Hour)+" -> "+
			formatSlot(cfg.Rules(), after.Day, after.Hour))
	}
	if before.Category != after.Category {
		parts = append(parts, "category "+before.Category+" -> "+after.Category)
	}
	if len(parts) == 0 {
		return after.Name
	}
	return strings.Join(parts, ", ")
}

func printEdited(cfg *config.Config, t task.Task) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, cfg.Rules())
	default:
		output.Messagef(os.Stdout, "Updated task %s: %s (%s)",
			output.ShortID(t.ID), t.Name, formatSlot(cfg.Rules(), t.Day, t.Hour))
	}
	return nil
}
