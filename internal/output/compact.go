package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []task.Task, rules task.Rules) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, rules))
	}
}

// TaskDetailCompact renders a single task in compact format.
func TaskDetailCompact(w io.Writer, t task.Task, rules task.Rules) {
	fmt.Fprintln(w, formatTaskLine(t, rules))
	fmt.Fprintln(w, "  id:"+t.ID)
}

// AgendaCompact renders the agenda one day per line.
func AgendaCompact(w io.Writer, agenda []board.AgendaDay) {
	for _, d := range agenda {
		if d.Empty() {
			fmt.Fprintln(w, slot.ShortDay(d.Name)+": --")
			continue
		}
		parts := make([]string, 0, len(d.Tasks))
		for _, t := range d.Tasks {
			parts = append(parts, strconv.Itoa(t.Hour)+" "+t.Name)
		}
		fmt.Fprintln(w, slot.ShortDay(d.Name)+": "+strings.Join(parts, "; "))
	}
}

// StatsCompact renders statistics in compact format.
func StatsCompact(w io.Writer, boardName string, s board.Stats) {
	fmt.Fprintf(w, "%s (%d tasks)\n", boardName, s.TotalTasks)

	for _, d := range s.Days {
		line := "  " + d.Name + ": " + strconv.Itoa(d.Total)
		var annotations []string
		for _, cc := range d.Categories {
			if cc.Count > 0 {
				annotations = append(annotations, cc.Category+"="+strconv.Itoa(cc.Count))
			}
		}
		if len(annotations) > 0 {
			line += " (" + strings.Join(annotations, " ") + ")"
		}
		fmt.Fprintln(w, line)
	}

	if len(s.Categories) > 0 {
		parts := make([]string, 0, len(s.Categories))
		for _, cc := range s.Categories {
			parts = append(parts, cc.Category+"="+strconv.Itoa(cc.Count))
		}
		fmt.Fprintln(w, "Category: "+strings.Join(parts, " "))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t task.Task, rules task.Rules) string {
	return ShortID(t.ID) + " " + slot.ShortDay(rules.DayName(t.Day)) + " " +
		slot.FormatHour(t.Hour) + " [" + t.Category + "] " + t.Name
}
