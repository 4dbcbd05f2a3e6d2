package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
)

func (b *Board) viewBoard() string {
	var body string
	if b.narrow() {
		body = b.renderAgenda()
	} else {
		body = b.renderGrid()
		if b.showStats {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, b.renderStats())
		}
	}

	// Keep the status bar on the last line.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(body, "\n") + 1
		if actual > targetHeight {
			lines := strings.SplitN(body, "\n", targetHeight+1)
			body = strings.Join(lines[:targetHeight], "\n")
		} else if actual < targetHeight {
			body += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, "", b.renderStatusBar())
}

func (b *Board) chromeHeight() int {
	if b.err != nil {
		return boardChrome + 1
	}
	return boardChrome
}

func (b *Board) renderGrid() string {
	w := b.cellWidth()
	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", hourLabelW))
	for i, name := range b.rules.DayNames {
		style := b.styles.header
		if i == b.col {
			style = b.styles.activeHeader
		}
		sb.WriteString(style.Width(w).Render(truncate(" "+slot.ShortDay(name), w)))
	}

	for r, row := range b.grid.Rows {
		sb.WriteByte('\n')
		sb.WriteString(b.styles.hourLabel.Width(hourLabelW).Render(slot.FormatHour(row.Hour)))
		for c := range row.Cells {
			sb.WriteString(b.renderCell(c, r, w))
		}
	}
	return sb.String()
}

func (b *Board) renderCell(col, row, width int) string {
	cell := b.grid.Rows[row].Cells[col]
	atCursor := col == b.col && row == b.row

	var text string
	style := b.styles.empty.Width(width)
	switch {
	case cell != nil:
		text = truncate(" "+cell.Name, width)
		style = lipgloss.NewStyle().Width(width).
			Foreground(b.styles.taskText).
			Background(lipgloss.Color(b.cfg.CategoryColor(cell.Category)))
		if b.picked != nil && b.picked.task.ID == cell.ID {
			style = style.Inherit(b.styles.picked)
		}
	case atCursor && b.picked != nil:
		text = truncate(" ▸ "+b.picked.task.Name, width)
	default:
		text = " ·"
	}
	if atCursor {
		style = style.Reverse(true)
	}
	return style.Render(text)
}

// renderAgenda is the narrow layout: the cursor's day is expanded and the
// other days show their task count.
func (b *Board) renderAgenda() string {
	var lines []string
	for _, d := range board.BuildAgenda(b.tasks, b.rules) {
		header := fmt.Sprintf("%s (%d)", d.Name, len(d.Tasks))
		if d.Day != b.col+1 {
			lines = append(lines, b.styles.header.Width(b.width).Render("▸ "+header))
			continue
		}
		lines = append(lines, b.styles.activeHeader.Width(b.width).Render("▾ "+header))
		for i, h := range b.rules.Hours {
			t := b.grid.At(d.Day, h)
			label := b.styles.hourLabel.Render(fmt.Sprintf("  %-6s ", slot.FormatHour(h)))
			text := b.styles.empty.Render("·")
			if t != nil {
				text = lipgloss.NewStyle().
					Foreground(lipgloss.Color(b.cfg.CategoryColor(t.Category))).
					Render(truncate(t.Name, b.width-10))
			}
			line := label + text
			if i == b.row {
				line = b.styles.cursor.Render(line)
			}
			lines = append(lines, line)
		}
		if d.Empty() {
			lines = append(lines, "  "+b.styles.dim.Render(board.NoTasksText))
		}
	}
	return strings.Join(lines, "\n")
}

func (b *Board) renderStats() string {
	stats := board.ComputeStats(b.tasks, b.rules)
	const barW = 14
	lines := []string{b.styles.header.Render(" Week load ")}
	for _, d := range stats.Days {
		lines = append(lines, fmt.Sprintf("%-4s %s %d", slot.ShortDay(d.Name), output.Bar(stats, d.Categories, barW), d.Total))
	}
	lines = append(lines, "")
	for _, cc := range stats.Categories {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(b.cfg.CategoryColor(cc.Category))).Render("■")
		lines = append(lines, fmt.Sprintf("%s %-10s %d", swatch, cc.Category, cc.Count))
	}
	return b.styles.sidebar.Width(sidebarWidth - 2).Render(strings.Join(lines, "\n"))
}

func (b *Board) renderStatusBar() string {
	var status string
	if b.picked != nil {
		status = fmt.Sprintf(" Moving %q | %s", b.picked.task.Name,
			helpLine(b.keys.Drop, b.keys.Cancel))
	} else {
		day, hour := b.cursor()
		status = fmt.Sprintf(" %s | %d tasks | %s | %s", b.cfg.Board.Name, len(b.tasks),
			formatSlot(b.rules, day, hour),
			helpLine(b.keys.New, b.keys.Edit, b.keys.Pick, b.keys.Delete, b.keys.ClearAll,
				b.keys.Theme, b.keys.Stats, b.keys.Quit))
	}
	status = truncate(status, b.width)

	if b.err != nil {
		errStr := b.styles.errorText.Render(truncate(b.err.Error(), b.width))
		return errStr + "\n" + b.styles.statusBar.Render(status)
	}
	return b.styles.statusBar.Render(status)
}

func (b *Board) viewForm() string {
	title := "New task"
	if b.form.editing != nil {
		title = "Edit task"
	}

	cats := make([]string, len(b.rules.Categories))
	for i, c := range b.rules.Categories {
		if i == b.form.category {
			cats[i] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color(b.cfg.CategoryColor(c))).Render("[" + c + "]")
		} else {
			cats[i] = b.styles.dim.Render(c)
		}
	}

	help := helpLine(b.keys.Submit, b.keys.NextCategory, b.keys.Cancel)
	if b.form.editing != nil {
		help = helpLine(b.keys.Submit, b.keys.SubmitAndMove, b.keys.NextCategory, b.keys.Cancel)
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "  " +
		b.styles.dim.Render(formatSlot(b.rules, b.form.day, b.form.hour)) + "\n\n" +
		b.form.name.View() + "\n\n" +
		"Category: " + strings.Join(cats, " ") + "\n\n"
	if b.form.err != nil {
		content += b.styles.errorText.Render(b.form.err.Error()) + "\n\n"
	}
	content += b.styles.dim.Render(help)

	return b.styles.dialog.Render(content)
}

func (b *Board) viewDeleteConfirm() string {
	t := b.deleteTask
	content := b.styles.errorText.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %s (%s)", t.Name, formatSlot(b.rules, t.Day, t.Hour)) + "\n\n" +
		b.styles.dim.Render("y:yes  n:no")

	return b.styles.dialog.Render(content)
}

func (b *Board) viewClearAllConfirm() string {
	content := b.styles.errorText.Render("Are you sure you want to clear all tasks?") + "\n\n" +
		fmt.Sprintf("  %d tasks will be removed from the board.", b.clearAllCount) + "\n\n" +
		b.styles.dim.Render("y:yes  n:no")

	return b.styles.dialog.Render(content)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
