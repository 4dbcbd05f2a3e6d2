// Package task defines scheduled tasks, their validation rules, and the
// serialized form they are persisted in.
package task

import "github.com/twiced-technology-gmbh/weekgrid/internal/slot"

// Task is a named, categorized entry occupying one slot of the week grid.
type Task struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Day      int    `json:"day" yaml:"day" toml:"day"`
	Hour     int    `json:"hour" yaml:"hour" toml:"hour"`
	Category string `json:"category" yaml:"category" toml:"category"`
}

// Slot returns the (day, hour) coordinate the task occupies.
func (t Task) Slot() slot.Slot {
	return slot.Slot{Day: t.Day, Hour: t.Hour}
}

// At reports whether the task occupies the given day and hour.
func (t Task) At(day, hour int) bool {
	return t.Day == day && t.Hour == hour
}

// SameContent reports whether two tasks hold the same name, slot and category,
// ignoring their ids.
func (t Task) SameContent(o Task) bool {
	return t.Name == o.Name && t.Day == o.Day && t.Hour == o.Hour && t.Category == o.Category
}
