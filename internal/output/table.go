package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

const (
	shortIDLen = 8
	maxName    = 40
	barWidth   = 30
	cellWidth  = 12
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	// categoryStyles is filled from the board config by SetCategoryColors.
	categoryStyles = map[string]lipgloss.Style{}

	colorEnabled = true
)

// SetCategoryColors installs the category palette, a category to #RRGGBB map.
func SetCategoryColors(colors map[string]string) {
	categoryStyles = make(map[string]lipgloss.Style, len(colors))
	if !colorEnabled {
		return
	}
	for name, c := range colors {
		categoryStyles[name] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
}

// DisableColor strips all styling from table output.
func DisableColor() {
	colorEnabled = false
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	categoryStyles = map[string]lipgloss.Style{}
}

// ShortID abbreviates an id for display. Resolve accepts the prefix back.
func ShortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []task.Task, rules task.Rules) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, dayW, hourW, catW, nameW := 10, 5, 6, 10, 6
	for _, t := range tasks {
		idW = max(idW, len(ShortID(t.ID))+pad)
		dayW = max(dayW, len(rules.DayName(t.Day))+pad)
		hourW = max(hourW, len(slot.FormatHour(t.Hour))+pad)
		catW = max(catW, len(t.Category)+pad)
		nameW = max(nameW, min(len(t.Name)+pad, maxName+pad))
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		idW, "ID", dayW, "DAY", hourW, "HOUR", catW, "CATEGORY", nameW, "NAME")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		row := fmt.Sprintf("%-*s %-*s %-*s %s %s",
			idW, ShortID(t.ID),
			dayW, rules.DayName(t.Day),
			hourW, slot.FormatHour(t.Hour),
			padRight(styledValue(t.Category, categoryStyles), catW),
			truncate(t.Name, maxName))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t task.Task, rules task.Rules) {
	titleLine := "Task " + ShortID(t.ID) + ": " + t.Name
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", t.ID)
	printField(w, "Day", rules.DayName(t.Day)+" ("+strconv.Itoa(t.Day)+")")
	printField(w, "Hour", slot.FormatHour(t.Hour))
	printField(w, "Category", styledValue(t.Category, categoryStyles))
}

// GridTable renders the week as a grid with one column per day.
func GridTable(w io.Writer, g board.Grid) {
	const labelW = 7
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelW))
	for _, d := range g.Days {
		b.WriteString(" " + padRight(slot.ShortDay(d), cellWidth))
	}
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(b.String(), " ")))

	for _, row := range g.Rows {
		b.Reset()
		b.WriteString(padRight(slot.FormatHour(row.Hour), labelW))
		for _, c := range row.Cells {
			cell := dimStyle.Render("·")
			if c != nil {
				cell = categoryText(truncate(c.Name, cellWidth-1), c.Category)
			}
			b.WriteString(" " + padRight(cell, cellWidth))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

// AgendaTable renders the week day by day, tasks in hour order.
func AgendaTable(w io.Writer, agenda []board.AgendaDay) {
	for i, d := range agenda {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(d.Name))
		if d.Empty() {
			fmt.Fprintln(w, "  "+dimStyle.Render(board.NoTasksText))
			continue
		}
		for _, t := range d.Tasks {
			const hourW = 6
			fmt.Fprintf(w, "  %s %s %s\n",
				padRight(slot.FormatHour(t.Hour), hourW),
				t.Name,
				dimStyle.Render("("+ShortID(t.ID)+")")+" "+styledValue(t.Category, categoryStyles))
		}
	}
}

// StatsTable renders per-day load as bars split by category.
func StatsTable(w io.Writer, boardName string, s board.Stats) {
	fmt.Fprintln(w, titleStyle.Render(boardName))
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.TotalTasks)

	const dayW = 12
	for _, d := range s.Days {
		fmt.Fprintf(w, "%s %s %d\n", padRight(d.Name, dayW), Bar(s, d.Categories, barWidth), d.Total)
	}

	fmt.Fprintln(w)
	header := fmt.Sprintf("%-16s %6s", "CATEGORY", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, cc := range s.Categories {
		const catColW = 16
		fmt.Fprintf(w, "%s %6d\n", padRight(styledValue(cc.Category, categoryStyles), catColW), cc.Count)
	}
}

// Bar draws one day's counts as colored segments scaled to the busiest day.
// The segments fill width columns when the day is the busiest.
func Bar(s board.Stats, counts []board.CategoryCount, width int) string {
	var b strings.Builder
	used := 0
	for _, cc := range counts {
		n := int(s.Share(cc.Count)*float64(width) + 0.5) //nolint:mnd // round half up
		if n == 0 && cc.Count > 0 {
			n = 1
		}
		n = min(n, width-used)
		if n <= 0 {
			continue
		}
		used += n
		b.WriteString(categoryText(strings.Repeat(barGlyph(), n), cc.Category))
	}
	return padRight(b.String(), width)
}

func barGlyph() string {
	if colorEnabled {
		return "█"
	}
	return "#"
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 { //nolint:mnd // room for the ellipsis
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}

// categoryText renders text in the style of a category.
func categoryText(text, category string) string {
	if st, ok := categoryStyles[category]; ok {
		return st.Render(text)
	}
	return text
}
