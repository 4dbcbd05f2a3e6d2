package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks with optional filtering, sorting, and output format control.
Use --grid to print the week as a day by hour table.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSlice("day", nil, "filter by day (comma-separated)")
	listCmd.Flags().StringSlice("hour", nil, "filter by start hour (comma-separated)")
	listCmd.Flags().StringSlice("category", nil, "filter by category (comma-separated)")
	listCmd.Flags().StringP("search", "s", "", "search task names (case-insensitive)")
	listCmd.Flags().String("sort", board.SortSlot, "sort field ("+strings.Join(board.SortFields, ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().Bool("grid", false, "print the week as a grid")
	listCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rules := cfg.Rules()

	filter, err := parseFilterFlags(cmd, rules)
	if err != nil {
		return err
	}

	sortBy, _ := cmd.Flags().GetString("sort")
	if !slices.Contains(board.SortFields, sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.SortFields, ", "))
	}
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	grid, _ := cmd.Flags().GetBool("grid")

	mgr, err := openManager(cfg)
	if err != nil {
		return err
	}

	tasks := board.List(mgr.Tasks(), rules, board.ListOptions{
		Filter:  filter,
		SortBy:  sortBy,
		Reverse: reverse,
		Limit:   limit,
	})

	if grid && outputFormat() != output.FormatJSON {
		output.GridTable(os.Stdout, board.BuildGrid(tasks, rules))
		return nil
	}
	return outputTaskList(tasks, rules)
}

// parseFilterFlags converts the --day, --hour, --category and --search flags.
func parseFilterFlags(cmd *cobra.Command, rules task.Rules) (board.FilterOptions, error) {
	var filter board.FilterOptions

	days, _ := cmd.Flags().GetStringSlice("day")
	for _, d := range days {
		day, err := rules.ParseDay(d)
		if err != nil {
			return filter, err
		}
		filter.Days = append(filter.Days, day)
	}

	hours, _ := cmd.Flags().GetStringSlice("hour")
	for _, h := range hours {
		hour, err := rules.ParseHour(h)
		if err != nil {
			return filter, err
		}
		filter.Hours = append(filter.Hours, hour)
	}

	categories, _ := cmd.Flags().GetStringSlice("category")
	for _, c := range categories {
		if err := rules.ValidateCategory(c); err != nil {
			return filter, err
		}
		filter.Categories = append(filter.Categories, c)
	}

	filter.Search, _ = cmd.Flags().GetString("search")
	return filter, nil
}

func outputTaskList(tasks []task.Task, rules task.Rules) error {
	switch outputFormat() {
	case output.FormatJSON:
		if tasks == nil {
			tasks = []task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks, rules)
	default:
		output.TaskTable(os.Stdout, tasks, rules)
	}
	return nil
}
