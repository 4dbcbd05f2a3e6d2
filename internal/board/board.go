package board

import (
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// List applies filters, sorting and the limit to a snapshot of tasks.
func List(tasks []task.Task, rules task.Rules, opts ListOptions) []task.Task {
	result := Filter(tasks, opts.Filter)

	sortField := opts.SortBy
	if sortField == "" {
		sortField = SortSlot
	}
	Sort(result, sortField, opts.Reverse, rules)

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// GridRow is one hour of the week grid.
type GridRow struct {
	Hour  int          `json:"hour"`
	Cells []*task.Task `json:"cells"` // index i holds day i+1, nil when free
}

// Grid is the days-by-hours matrix of slot occupants.
type Grid struct {
	Days []string  `json:"days"`
	Rows []GridRow `json:"rows"`
}

// BuildGrid places every task in its cell. Tasks outside the board's days or
// hours are left out.
func BuildGrid(tasks []task.Task, rules task.Rules) Grid {
	g := Grid{
		Days: append([]string{}, rules.DayNames...),
		Rows: make([]GridRow, len(rules.Hours)),
	}
	rowOf := make(map[int]int, len(rules.Hours))
	for i, h := range rules.Hours {
		g.Rows[i] = GridRow{Hour: h, Cells: make([]*task.Task, len(rules.DayNames))}
		rowOf[h] = i
	}
	for _, t := range tasks {
		r, ok := rowOf[t.Hour]
		if !ok || t.Day < 1 || t.Day > len(rules.DayNames) {
			continue
		}
		g.Rows[r].Cells[t.Day-1] = &t
	}
	return g
}

// At returns the task in a cell, or nil.
func (g Grid) At(day, hour int) *task.Task {
	for _, row := range g.Rows {
		if row.Hour == hour && day >= 1 && day <= len(row.Cells) {
			return row.Cells[day-1]
		}
	}
	return nil
}

// Free counts the empty cells.
func (g Grid) Free() int {
	n := 0
	for _, row := range g.Rows {
		for _, c := range row.Cells {
			if c == nil {
				n++
			}
		}
	}
	return n
}

// AgendaDay lists the tasks of one day by start hour.
type AgendaDay struct {
	Day   int         `json:"day"`
	Name  string      `json:"name"`
	Tasks []task.Task `json:"tasks"`
}

// Empty reports whether the day has no tasks.
func (d AgendaDay) Empty() bool {
	return len(d.Tasks) == 0
}

// NoTasksText is shown for a day without tasks.
const NoTasksText = "No tasks for this day"

// BuildAgenda returns every day of the week with its tasks sorted by hour.
func BuildAgenda(tasks []task.Task, rules task.Rules) []AgendaDay {
	byDay := groupByDay(tasks)
	agenda := make([]AgendaDay, 0, len(rules.DayNames))
	for _, day := range rules.Days() {
		dayTasks := append([]task.Task{}, byDay[day]...)
		Sort(dayTasks, SortSlot, false, rules)
		agenda = append(agenda, AgendaDay{Day: day, Name: rules.DayName(day), Tasks: dayTasks})
	}
	return agenda
}
