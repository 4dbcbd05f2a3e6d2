package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
)

// hasDarkBackground is swapped out in tests.
var hasDarkBackground = termenv.HasDarkBackground

// ResolveTheme maps a configured theme to "dark" or "light", asking the
// terminal for its background when the theme is "auto".
func ResolveTheme(theme string) string {
	switch theme {
	case config.ThemeDark, config.ThemeLight:
		return theme
	}
	if hasDarkBackground() {
		return config.ThemeDark
	}
	return config.ThemeLight
}

// palette holds the styles of one theme.
type palette struct {
	header       lipgloss.Style
	activeHeader lipgloss.Style
	hourLabel    lipgloss.Style
	empty        lipgloss.Style
	cursor       lipgloss.Style
	picked       lipgloss.Style
	taskText     lipgloss.Color
	statusBar    lipgloss.Style
	errorText    lipgloss.Style
	dim          lipgloss.Style
	dialog       lipgloss.Style
	sidebar      lipgloss.Style
}

func newPalette(theme string) palette {
	if theme == config.ThemeLight {
		return palette{
			header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("236")).Background(lipgloss.Color("254")),
			activeHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")),
			hourLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			empty:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			cursor:       lipgloss.NewStyle().Reverse(true),
			picked:       lipgloss.NewStyle().Bold(true).Underline(true),
			taskText:     lipgloss.Color("232"),
			statusBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			errorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
			dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			dialog: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).Padding(1, 2),
			sidebar: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("250")).PaddingLeft(1),
		}
	}
	return palette{
		header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		activeHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")),
		hourLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		empty:        lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		cursor:       lipgloss.NewStyle().Reverse(true),
		picked:       lipgloss.NewStyle().Bold(true).Underline(true),
		taskText:     lipgloss.Color("235"),
		statusBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		dialog: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).Padding(1, 2),
		sidebar: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("238")).PaddingLeft(1),
	}
}
