package board

import (
	"slices"

	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

// CategoryCount holds a count for a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DayStats is the load of one day.
type DayStats struct {
	Day        int             `json:"day"`
	Name       string          `json:"name"`
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// Stats summarizes how tasks spread over the week.
type Stats struct {
	TotalTasks int             `json:"total_tasks"`
	MaxCount   int             `json:"max_count"`
	Days       []DayStats      `json:"days"`
	Categories []CategoryCount `json:"categories"`
}

// Share returns count as a fraction of the busiest day, for scaling bars.
func (s Stats) Share(count int) float64 {
	return float64(count) / float64(s.MaxCount)
}

// ComputeStats counts tasks per day with a per-category breakdown. MaxCount
// is the busiest day's total and is never below 1.
func ComputeStats(tasks []task.Task, rules task.Rules) Stats {
	byDay := groupByDay(tasks)
	stats := Stats{
		TotalTasks: len(tasks),
		MaxCount:   1,
		Days:       make([]DayStats, 0, len(rules.DayNames)),
		Categories: countCategories(tasks, rules.Categories),
	}
	for _, day := range rules.Days() {
		dayTasks := byDay[day]
		stats.Days = append(stats.Days, DayStats{
			Day:        day,
			Name:       rules.DayName(day),
			Total:      len(dayTasks),
			Categories: countCategories(dayTasks, rules.Categories),
		})
		stats.MaxCount = max(stats.MaxCount, len(dayTasks))
	}
	return stats
}

// countCategories counts tasks per category in the configured order.
// Categories outside that order are appended as they are met.
func countCategories(tasks []task.Task, order []string) []CategoryCount {
	counts := make([]CategoryCount, len(order))
	for i, c := range order {
		counts[i].Category = c
	}
	for _, t := range tasks {
		i := slices.IndexFunc(counts, func(cc CategoryCount) bool { return cc.Category == t.Category })
		if i < 0 {
			counts = append(counts, CategoryCount{Category: t.Category})
			i = len(counts) - 1
		}
		counts[i].Count++
	}
	return counts
}

func groupByDay(tasks []task.Task) map[int][]task.Task {
	groups := make(map[int][]task.Task)
	for _, t := range tasks {
		groups[t.Day] = append(groups[t.Day], t)
	}
	return groups
}
