package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
)

// AgendaMarkdown writes the agenda as a markdown document.
func AgendaMarkdown(boardName string, agenda []board.AgendaDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", boardName)
	for _, d := range agenda {
		fmt.Fprintf(&b, "\n## %s\n\n", d.Name)
		if d.Empty() {
			fmt.Fprintf(&b, "_%s_\n", board.NoTasksText)
			continue
		}
		for _, t := range d.Tasks {
			fmt.Fprintf(&b, "- **%s** %s `%s`\n", slot.FormatHour(t.Hour), escapeMarkdown(t.Name), t.Category)
		}
	}
	return b.String()
}

// RenderMarkdown styles markdown for a terminal of the given width. Style is
// "dark", "light", "notty", or "auto" to follow the terminal background.
func RenderMarkdown(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
