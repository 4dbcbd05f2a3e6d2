package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/tui"
)

const defaultMarkdownWidth = 80

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show the week day by day",
	Long: `Prints every day of the week with its tasks in hour order.
Days without tasks are marked. Use --markdown for a markdown document,
rendered for the terminal when stdout is one.`,
	Args: cobra.NoArgs,
	RunE: runAgenda,
}

func init() {
	agendaCmd.Flags().StringSlice("day", nil, "only these days (comma-separated)")
	agendaCmd.Flags().Bool("markdown", false, "output as markdown")
	rootCmd.AddCommand(agendaCmd)
}

func runAgenda(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rules := cfg.Rules()

	mgr, err := openManager(cfg)
	if err != nil {
		return err
	}

	agenda := board.BuildAgenda(mgr.Tasks(), rules)
	if days, _ := cmd.Flags().GetStringSlice("day"); len(days) > 0 {
		agenda, err = selectDays(agenda, days, rules.ParseDay)
		if err != nil {
			return err
		}
	}

	if markdown, _ := cmd.Flags().GetBool("markdown"); markdown {
		return printAgendaMarkdown(cfg.Board.Name, cfg.Theme, agenda)
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, agenda)
	case output.FormatCompact:
		output.AgendaCompact(os.Stdout, agenda)
	default:
		output.AgendaTable(os.Stdout, agenda)
	}
	return nil
}

func selectDays(agenda []board.AgendaDay, inputs []string, parse func(string) (int, error)) ([]board.AgendaDay, error) {
	want := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		day, err := parse(in)
		if err != nil {
			return nil, err
		}
		want[day] = true
	}
	var out []board.AgendaDay
	for _, d := range agenda {
		if want[d.Day] {
			out = append(out, d)
		}
	}
	return out, nil
}

// printAgendaMarkdown writes raw markdown when stdout is redirected and a
// glamour rendering sized to the terminal otherwise.
func printAgendaMarkdown(boardName, theme string, agenda []board.AgendaDay) error {
	md := output.AgendaMarkdown(boardName, agenda)

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		_, err := fmt.Fprint(os.Stdout, md)
		return err
	}

	width := defaultMarkdownWidth
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}
	style := tui.ResolveTheme(theme)
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		style = "notty"
	}

	rendered, err := output.RenderMarkdown(md, width, style)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, rendered)
	return err
}
