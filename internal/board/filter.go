// Package board derives the views of a week board from its task collection:
// the grid, the per-day agenda, and statistics.
package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Days       []int
	Hours      []int
	Categories []string
	Search     string // case-insensitive substring match on the name
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []task.Task, opts FilterOptions) []task.Task {
	var result []task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t task.Task, opts FilterOptions) bool {
	if len(opts.Days) > 0 && !slices.Contains(opts.Days, t.Day) {
		return false
	}
	if len(opts.Hours) > 0 && !slices.Contains(opts.Hours, t.Hour) {
		return false
	}
	if len(opts.Categories) > 0 && !slices.Contains(opts.Categories, t.Category) {
		return false
	}
	if opts.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(opts.Search)) {
		return false
	}
	return true
}
