package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Removes a task from the week. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	refs := parseRefs(args[0])
	if len(refs) == 0 {
		return task.ValidateTaskID(args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	if len(refs) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	if len(refs) == 1 {
		return deleteSingleTask(cfg, refs[0], yes)
	}

	return withManager(cfg, func(mgr *schedule.Manager) error {
		return runBatch(refs, func(i int) (string, error) {
			t, err := executeDelete(cfg, mgr, refs[i])
			return t.ID, err
		})
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
// The prompt runs before the board lock is taken.
func deleteSingleTask(cfg *config.Config, ref string, yes bool) error {
	mgr, err := openManager(cfg)
	if err != nil {
		return err
	}
	t, err := mgr.Resolve(ref)
	if err != nil {
		return err
	}

	if !yes {
		ok, err := confirm(fmt.Sprintf("Delete task %s %q?", output.ShortID(t.ID), t.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	var deleted task.Task
	err = withManager(cfg, func(mgr *schedule.Manager) error {
		var deleteErr error
		deleted, deleteErr = executeDelete(cfg, mgr, t.ID)
		return deleteErr
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     deleted.ID,
			"name":   deleted.Name,
		})
	}

	output.Messagef(os.Stdout, "Deleted task %s: %s", output.ShortID(deleted.ID), deleted.Name)
	return nil
}

// executeDelete resolves ref, removes the task and logs the delete.
func executeDelete(cfg *config.Config, mgr *schedule.Manager, ref string) (task.Task, error) {
	t, err := mgr.Resolve(ref)
	if err != nil {
		return task.Task{}, err
	}
	if err := mgr.Delete(t.ID); err != nil {
		return t, err
	}
	logActivity(cfg, "delete", t.ID, t.Name)
	return t, nil
}
