package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/output"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"board.name": {
			get:      func(c *config.Config) any { return c.Board.Name },
			set:      func(c *config.Config, v string) error { c.Board.Name = v; return nil },
			writable: true,
		},
		"board.description": {
			get:      func(c *config.Config) any { return c.Board.Description },
			set:      func(c *config.Config, v string) error { c.Board.Description = v; return nil },
			writable: true,
		},
		"days": {
			get: func(c *config.Config) any { return c.Days },
			set: func(c *config.Config, v string) error {
				c.Days = splitList(v)
				return nil // validation checks the count
			},
			writable: true,
		},
		"hours": {
			get: func(c *config.Config) any { return c.Hours },
			set: func(c *config.Config, v string) error {
				hours, err := slot.ParseHourRange(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidHour, "invalid hours %q: %v", v, err)
				}
				c.Hours = hours
				return nil
			},
			writable: true,
		},
		"categories": {
			get: func(c *config.Config) any { return c.CategoryNames() },
		},
		"defaults.category": {
			get: func(c *config.Config) any { return c.Defaults.Category },
			set: func(c *config.Config, v string) error {
				if config.IndexOf(c.CategoryNames(), v) < 0 {
					return clierr.Newf(clierr.InvalidCategory,
						"invalid default category %q; allowed: %s", v, strings.Join(c.CategoryNames(), ", "))
				}
				c.Defaults.Category = v
				return nil
			},
			writable: true,
		},
		"storage.key": {
			get: func(c *config.Config) any { return c.StorageKey() },
		},
		"theme": {
			get:      func(c *config.Config) any { return c.Theme },
			set:      setTheme,
			writable: true,
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"days",
		"hours",
		"categories",
		"defaults.category",
		"storage.key",
		"theme",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-20s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	if err := saveConfig(cfg, key); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

// saveConfig writes cfg. Changing hours leaves tasks where they are, so the
// stored tasks are first loaded against the new hours under the board lock.
func saveConfig(cfg *config.Config, key string) error {
	if key != "hours" {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		return nil
	}

	err := withManager(cfg, func(*schedule.Manager) error {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		return nil
	})
	if clierr.HasCode(err, clierr.CorruptStore) {
		return clierr.New(clierr.InvalidHour,
			"existing tasks do not fit the new hours; move or delete them first").
			WithDetails(map[string]any{"hours": cfg.Hours})
	}
	return err
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case []int:
		parts := make([]string, len(v))
		for i, h := range v {
			parts[i] = slot.FormatHour(h)
		}
		return strings.Join(parts, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
