package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

const nameLimit = 80

// taskForm collects the name and category of a new or edited task. The slot
// comes from the cursor, or from a pick-up after ctrl+o.
type taskForm struct {
	name     textinput.Model
	category int
	editing  *task.Task
	day      int
	hour     int
	err      error
}

func (b *Board) openForm(t *task.Task) tea.Cmd {
	in := textinput.New()
	in.Placeholder = "Task name"
	in.CharLimit = nameLimit
	in.Width = 40

	f := taskForm{name: in}
	cat := b.cfg.Defaults.Category
	if t != nil {
		tc := *t
		f.editing = &tc
		f.day, f.hour = t.Day, t.Hour
		f.name.SetValue(t.Name)
		cat = t.Category
	} else {
		f.day, f.hour = b.cursor()
	}
	f.category = max(slices.Index(b.rules.Categories, cat), 0)

	b.form = f
	b.view = viewForm
	b.err = nil
	return b.form.name.Focus()
}

func (f *taskForm) categoryName(categories []string) string {
	return categories[f.category]
}

func (b *Board) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(b.rules.Categories)
	switch {
	case key.Matches(msg, b.keys.Cancel):
		b.view = viewBoard
		return b, nil
	case key.Matches(msg, b.keys.NextCategory):
		b.form.category = (b.form.category + 1) % n
		return b, nil
	case key.Matches(msg, b.keys.PrevCategory):
		b.form.category = (b.form.category + n - 1) % n
		return b, nil
	case key.Matches(msg, b.keys.Submit):
		b.submitForm()
		return b, nil
	case key.Matches(msg, b.keys.SubmitAndMove):
		b.submitAndPick()
		return b, nil
	}

	var cmd tea.Cmd
	b.form.name, cmd = b.form.name.Update(msg)
	return b, cmd
}

// submitForm creates or edits the task in place. Input errors keep the form
// open; a taken slot closes it and shows the conflict on the board.
func (b *Board) submitForm() {
	name := strings.TrimSpace(b.form.name.Value())
	category := b.form.categoryName(b.rules.Categories)

	var (
		t   task.Task
		err error
	)
	action := "create"
	if b.form.editing != nil {
		action = "edit"
		t, err = b.mgr.Edit(b.form.editing.ID, name, b.form.day, b.form.hour, category)
	} else {
		t, err = b.mgr.Create(name, b.form.day, b.form.hour, category)
	}

	if err != nil {
		if clierr.HasCode(err, clierr.SlotOccupied) {
			b.view = viewBoard
			b.err = err
			return
		}
		b.form.err = err
		return
	}
	b.logAction(action, t.ID, t.Name)
	b.view = viewBoard
}

// submitAndPick keeps the edited fields and lifts the task so the drop
// applies name, category and slot in one edit.
func (b *Board) submitAndPick() {
	if b.form.editing == nil {
		b.submitForm()
		return
	}
	name := strings.TrimSpace(b.form.name.Value())
	if err := task.ValidateName(name); err != nil {
		b.form.err = err
		return
	}
	b.picked = &pending{
		task:     *b.form.editing,
		edit:     true,
		name:     name,
		category: b.form.categoryName(b.rules.Categories),
	}
	b.view = viewBoard
}
