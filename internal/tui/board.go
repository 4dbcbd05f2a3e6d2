// Package tui implements the interactive week board.
package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewForm
	viewConfirmDelete
	viewConfirmClearAll
)

// Layout constants.
const (
	narrowWidth  = 60 // below this the agenda replaces the grid
	hourLabelW   = 7
	sidebarWidth = 30
	minCellW     = 6
	boardChrome  = 2 // blank line + status bar below the grid
)

// pending is a task lifted off the grid, waiting to be dropped.
type pending struct {
	task task.Task
	// edit carries the form values when the pick-up came from the edit form.
	edit     bool
	name     string
	category string
}

// Board is the top-level bubbletea model.
type Board struct {
	cfg   *config.Config
	mgr   *schedule.Manager
	rules task.Rules
	keys  keyMap

	tasks []task.Task
	grid  board.Grid

	// Cursor position: day index 0..6 and index into rules.Hours.
	col, row int

	view      view
	width     int
	height    int
	err       error
	theme     string
	styles    palette
	showStats bool

	picked *pending
	form   taskForm

	deleteTask    task.Task
	clearAllCount int

	saveConfig func(*config.Config) error
	logAction  func(action, taskID, detail string)
}

// NewBoard creates a Board over a loaded manager. The manager's notifier
// should forward to Board.Changed so edits made here re-render the grid.
func NewBoard(cfg *config.Config, mgr *schedule.Manager) *Board {
	b := &Board{
		cfg:        cfg,
		mgr:        mgr,
		rules:      mgr.Rules(),
		keys:       defaultKeys(),
		saveConfig: (*config.Config).Save,
		logAction: func(action, taskID, detail string) {
			board.LogMutation(cfg.Dir(), action, taskID, detail)
		},
	}
	b.setTheme(ResolveTheme(cfg.Theme))
	b.Changed(mgr.Tasks())
	return b
}

// Changed implements schedule.Notifier.
func (b *Board) Changed(tasks []task.Task) {
	b.tasks = tasks
	b.grid = board.BuildGrid(tasks, b.rules)
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil
	case ReloadMsg:
		b.reload()
		return b, nil
	case ErrorMsg:
		b.err = msg.Err
		return b, nil
	}
	if b.view == viewForm {
		var cmd tea.Cmd
		b.form.name, cmd = b.form.name.Update(msg)
		return b, cmd
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewForm:
		return b.viewForm()
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	case viewConfirmClearAll:
		return b.viewClearAllConfirm()
	default:
		return b.viewBoard()
	}
}

// reload re-reads the collection after the data directory changed on disk.
func (b *Board) reload() {
	if err := b.mgr.Load(); err != nil {
		b.err = err
		return
	}
	b.Changed(b.mgr.Tasks())
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return b, tea.Quit
	}

	switch b.view {
	case viewBoard:
		if b.picked != nil {
			return b.handlePickKey(msg)
		}
		return b.handleBoardKey(msg)
	case viewForm:
		return b.handleFormKey(msg)
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	case viewConfirmClearAll:
		return b.handleClearAllKey(msg)
	}
	return b, nil
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.moveCursor(msg) {
		return b, nil
	}
	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.New):
		return b, b.openForm(nil)
	case key.Matches(msg, b.keys.Edit):
		if t := b.selectedTask(); t != nil {
			return b, b.openForm(t)
		}
		if msg.String() == "enter" {
			return b, b.openForm(nil)
		}
	case key.Matches(msg, b.keys.Pick):
		if t := b.selectedTask(); t != nil {
			b.picked = &pending{task: *t}
			b.err = nil
		}
	case key.Matches(msg, b.keys.Delete):
		if t := b.selectedTask(); t != nil {
			b.deleteTask = *t
			b.view = viewConfirmDelete
		}
	case key.Matches(msg, b.keys.ClearAll):
		b.clearAllCount = len(b.tasks)
		if b.clearAllCount > 0 {
			b.view = viewConfirmClearAll
		}
	case key.Matches(msg, b.keys.Theme):
		b.toggleTheme()
	case key.Matches(msg, b.keys.Stats):
		b.showStats = !b.showStats
	}
	return b, nil
}

func (b *Board) handlePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.moveCursor(msg) {
		return b, nil
	}
	switch {
	case key.Matches(msg, b.keys.Cancel):
		b.picked = nil
	case key.Matches(msg, b.keys.Drop):
		b.drop()
	}
	return b, nil
}

// moveCursor handles navigation keys and reports whether msg was one.
func (b *Board) moveCursor(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, b.keys.Left):
		b.col = max(b.col-1, 0)
	case key.Matches(msg, b.keys.Right):
		b.col = min(b.col+1, len(b.rules.DayNames)-1)
	case key.Matches(msg, b.keys.Up):
		b.row = max(b.row-1, 0)
	case key.Matches(msg, b.keys.Down):
		b.row = min(b.row+1, len(b.rules.Hours)-1)
	default:
		return false
	}
	return true
}

// cursor returns the day and hour under the cursor.
func (b *Board) cursor() (day, hour int) {
	return b.col + 1, b.rules.Hours[b.row]
}

func (b *Board) selectedTask() *task.Task {
	day, hour := b.cursor()
	return b.grid.At(day, hour)
}

// drop places the picked task at the cursor. A pick-up from the edit form
// applies all edited fields at once.
func (b *Board) drop() {
	p := b.picked
	b.picked = nil
	day, hour := b.cursor()

	if p.edit {
		updated, err := b.mgr.Edit(p.task.ID, p.name, day, hour, p.category)
		if err != nil {
			b.err = err
			return
		}
		b.err = nil
		b.logAction("edit", updated.ID, updated.Name)
		return
	}

	moved, changed, err := b.mgr.Move(p.task.ID, day, hour)
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	if changed {
		b.logAction("move", moved.ID, fmt.Sprintf("%s -> %s", p.task.Slot(), moved.Slot()))
	}
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Yes):
		if err := b.mgr.Delete(b.deleteTask.ID); err != nil {
			b.err = err
		} else {
			b.err = nil
			b.logAction("delete", b.deleteTask.ID, b.deleteTask.Name)
		}
		b.view = viewBoard
	case key.Matches(msg, b.keys.No):
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) handleClearAllKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Yes):
		if err := b.mgr.ClearAll(); err != nil {
			b.err = err
		} else {
			b.err = nil
			b.logAction("clear-all", "", strconv.Itoa(b.clearAllCount)+" tasks")
		}
		b.view = viewBoard
	case key.Matches(msg, b.keys.No):
		b.view = viewBoard
	}
	return b, nil
}

// toggleTheme flips between dark and light and persists the choice.
func (b *Board) toggleTheme() {
	next := config.ThemeDark
	if b.theme == config.ThemeDark {
		next = config.ThemeLight
	}
	b.setTheme(next)
	b.cfg.Theme = next
	if err := b.saveConfig(b.cfg); err != nil {
		b.err = fmt.Errorf("saving theme: %w", err)
	}
}

func (b *Board) setTheme(theme string) {
	b.theme = theme
	b.styles = newPalette(theme)
}

// handleMouse moves the cursor to a clicked cell, dropping a picked task there.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return b, nil
	}
	if b.view != viewBoard || b.narrow() {
		return b, nil
	}

	col := (msg.X - hourLabelW) / b.cellWidth()
	row := msg.Y - 1 // header line
	if msg.X < hourLabelW || col >= len(b.rules.DayNames) || row < 0 || row >= len(b.rules.Hours) {
		return b, nil
	}
	b.col, b.row = col, row
	if b.picked != nil {
		b.drop()
	}
	return b, nil
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Board) WatchPaths() []string {
	return []string{b.cfg.DataPath()}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// ErrorMsg reports a background failure, such as a watcher error, in the
// status bar.
type ErrorMsg struct{ Err error }

func (b *Board) narrow() bool {
	return b.width < narrowWidth
}

func (b *Board) cellWidth() int {
	avail := b.width - hourLabelW
	if b.showStats {
		avail -= sidebarWidth
	}
	return max(avail/len(b.rules.DayNames), minCellW)
}

func formatSlot(rules task.Rules, day, hour int) string {
	return slot.ShortDay(rules.DayName(day)) + " " + slot.FormatHour(hour)
}
