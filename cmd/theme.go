package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/tui"
)

const themeToggle = "toggle"

var themeCmd = &cobra.Command{
	Use:   "theme [dark|light|auto|toggle]",
	Short: "Show or change the color theme",
	Long: `Without an argument, prints the configured theme and what it resolves to.
"auto" follows the terminal background; "toggle" switches between dark and light.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: append(append([]string{}, config.Themes...), themeToggle),
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if err := setTheme(cfg, args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
	}

	resolved := tui.ResolveTheme(cfg.Theme)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"theme":    cfg.Theme,
			"resolved": resolved,
		})
	}
	if cfg.Theme == config.ThemeAuto {
		output.Messagef(os.Stdout, "Theme: auto (%s)", resolved)
		return nil
	}
	output.Messagef(os.Stdout, "Theme: %s", cfg.Theme)
	return nil
}

// setTheme applies a theme name or "toggle" to cfg. Toggling from auto flips
// whatever auto currently resolves to.
func setTheme(cfg *config.Config, v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == themeToggle {
		if tui.ResolveTheme(cfg.Theme) == config.ThemeDark {
			cfg.Theme = config.ThemeLight
		} else {
			cfg.Theme = config.ThemeDark
		}
		return nil
	}
	if config.IndexOf(config.Themes, v) < 0 {
		return clierr.Newf(clierr.InvalidInput, "invalid theme %q; allowed: %s, %s",
			v, strings.Join(config.Themes, ", "), themeToggle)
	}
	cfg.Theme = v
	return nil
}
