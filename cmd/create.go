package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [NAME]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Places a new task into a free slot of the week.

Name can be provided as a positional argument or via --name flag.
Day accepts a number (1 = Monday) or a day name ("wed", "Wednesday").
Hour accepts "14", "2pm" or "14:00".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("name", "", "task name (alternative to positional argument)")
	createCmd.Flags().String("day", "", "day of the week (required)")
	createCmd.Flags().String("hour", "", "start hour (required)")
	createCmd.Flags().String("category", "", "task category (default from config)")
	createCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(createCmd)
}

// normalizeTaskFlags maps the short spellings users tend to type onto the
// canonical flag names.
func normalizeTaskFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "cat":
		name = "category"
	case "title":
		name = "name"
	case "time":
		name = "hour"
	}
	return pflag.NormalizedName(name)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name, err := resolveCreateName(cmd, args)
	if err != nil {
		return err
	}

	dayInput, _ := cmd.Flags().GetString("day")
	hourInput, _ := cmd.Flags().GetString("hour")
	if dayInput == "" || hourInput == "" {
		return clierr.New(clierr.InvalidInput, "both --day and --hour are required")
	}

	rules := cfg.Rules()
	s, err := rules.ParseSlot(dayInput, hourInput)
	if err != nil {
		return err
	}

	category, _ := cmd.Flags().GetString("category")
	if category == "" {
		category = cfg.Defaults.Category
	}

	var created task.Task
	err = withManager(cfg, func(mgr *schedule.Manager) error {
		var createErr error
		created, createErr = mgr.Create(name, s.Day, s.Hour, category)
		return createErr
	})
	if err != nil {
		return err
	}

	logActivity(cfg, "create", created.ID, created.Name)
	return printCreated(cfg, created)
}

func resolveCreateName(cmd *cobra.Command, args []string) (string, error) {
	flagName, _ := cmd.Flags().GetString("name")
	switch {
	case len(args) > 0 && flagName != "":
		return "", clierr.New(clierr.InvalidInput, "provide the name as an argument or with --name, not both")
	case len(args) > 0:
		return args[0], nil
	case flagName != "":
		return flagName, nil
	}
	return "", clierr.New(clierr.InvalidName, "task name is required")
}

func printCreated(cfg *config.Config, t task.Task) error {
	rules := cfg.Rules()
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, rules)
		return nil
	default:
		output.Messagef(os.Stdout, "Created task %s: %s (%s)",
			output.ShortID(t.ID), strings.TrimSpace(t.Name), formatSlot(rules, t.Day, t.Hour))
		return nil
	}
}

// formatSlot renders a slot as "Wednesday 12 PM".
func formatSlot(rules task.Rules, day, hour int) string {
	return rules.DayName(day) + " " + slot.FormatHour(hour)
}
