package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right, Up, Down key.Binding
	New, Edit, Pick       key.Binding
	Drop, Cancel          key.Binding
	Delete, ClearAll      key.Binding
	Theme, Stats, Quit    key.Binding
	Yes, No               key.Binding
	NextCategory          key.Binding
	PrevCategory          key.Binding
	Submit, SubmitAndMove key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:          key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev day")),
		Right:         key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next day")),
		Up:            key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "earlier")),
		Down:          key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "later")),
		New:           key.NewBinding(key.WithKeys("n", "a"), key.WithHelp("n", "new")),
		Edit:          key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Pick:          key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Drop:          key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "drop")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Delete:        key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "del")),
		ClearAll:      key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear-all")),
		Theme:         key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Stats:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Quit:          key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Yes:           key.NewBinding(key.WithKeys("y", "Y")),
		No:            key.NewBinding(key.WithKeys("n", "N", "esc", "q")),
		NextCategory:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "category")),
		PrevCategory:  key.NewBinding(key.WithKeys("shift+tab")),
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		SubmitAndMove: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "save & move")),
	}
}

// helpLine renders bindings as "k:desc" pairs.
func helpLine(bindings ...key.Binding) string {
	s := ""
	for i, b := range bindings {
		if i > 0 {
			s += " "
		}
		s += b.Help().Key + ":" + b.Help().Desc
	}
	return s
}
