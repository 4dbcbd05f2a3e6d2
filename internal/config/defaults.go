// Package config handles weekgrid board configuration.
package config

import "github.com/twiced-technology-gmbh/weekgrid/internal/slot"

const (
	// DefaultDir is the default board directory name.
	DefaultDir = "weekgrid"
	// DefaultDataDir is the subdirectory holding the stored collections.
	DefaultDataDir = "data"
	// DefaultStorageKey is the key the task collection is stored under.
	DefaultStorageKey = "weeklyCalendarTasks"
	// DefaultCategory is the category given to tasks created without one.
	DefaultCategory = "work"

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)

// Themes.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Themes lists the accepted theme values.
var Themes = []string{ThemeAuto, ThemeDark, ThemeLight}

// DefaultCategories are the categories of a new board with their colors.
var DefaultCategories = []CategoryConfig{
	{Name: "work", Color: "#4A90E2"},
	{Name: "personal", Color: "#50E3C2"},
	{Name: "other", Color: "#F5A623"},
}

// FallbackColor is used for categories without a configured color.
const FallbackColor = "#9B9B9B"

// DefaultDays and DefaultHours mirror the slot package defaults so a fresh
// config.yml spells them out.
var (
	DefaultDays  = slot.DefaultDayNames
	DefaultHours = slot.DefaultHours
)
