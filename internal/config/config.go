package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
	"github.com/twiced-technology-gmbh/weekgrid/internal/store"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no weekgrid board found (run 'weekgrid init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

var colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config represents the board configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Board      BoardConfig      `yaml:"board"`
	Days       []string         `yaml:"days"`
	Hours      []int            `yaml:"hours"`
	Categories []CategoryConfig `yaml:"categories"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
	Storage    StorageConfig    `yaml:"storage"`
	Theme      string           `yaml:"theme,omitempty"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Category string `yaml:"category"`
}

// StorageConfig selects where the task collection is kept.
type StorageConfig struct {
	Key string `yaml:"key"`
}

// CategoryConfig names a category and the color it renders in.
type CategoryConfig struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// UnmarshalYAML allows CategoryConfig to be parsed from either a plain string
// (v1: "work") or a mapping ({name: work, color: "#4A90E2"}).
func (c *CategoryConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.Name = value.Value
		return nil
	}
	type plain CategoryConfig
	return value.Decode((*plain)(c))
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// DataPath returns the absolute path to the stored collections.
func (c *Config) DataPath() string {
	return filepath.Join(c.dir, DefaultDataDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:    CurrentVersion,
		Board:      BoardConfig{Name: name},
		Days:       append([]string{}, DefaultDays...),
		Hours:      append([]int{}, DefaultHours...),
		Categories: append([]CategoryConfig{}, DefaultCategories...),
		Defaults:   DefaultsConfig{Category: DefaultCategory},
		Storage:    StorageConfig{Key: DefaultStorageKey},
		Theme:      ThemeAuto,
	}
}

// CategoryNames returns the ordered list of category names.
func (c *Config) CategoryNames() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// CategoryColor returns the configured color for a category, or
// FallbackColor if it has none.
func (c *Config) CategoryColor(name string) string {
	for _, cat := range c.Categories {
		if cat.Name == name && cat.Color != "" {
			return cat.Color
		}
	}
	return FallbackColor
}

// CategoryColors returns the category to color mapping.
func (c *Config) CategoryColors() map[string]string {
	colors := make(map[string]string, len(c.Categories))
	for _, cat := range c.Categories {
		colors[cat.Name] = c.CategoryColor(cat.Name)
	}
	return colors
}

// Rules returns the task validation rules for this board.
func (c *Config) Rules() task.Rules {
	return task.Rules{
		DayNames:   append([]string{}, c.Days...),
		Hours:      append([]int{}, c.Hours...),
		Categories: c.CategoryNames(),
	}
}

// StorageKey returns the configured storage key or the default.
func (c *Config) StorageKey() string {
	if c.Storage.Key == "" {
		return DefaultStorageKey
	}
	return c.Storage.Key
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if len(c.Days) != slot.DaysPerWeek {
		return fmt.Errorf("%w: exactly %d day names are required", ErrInvalid, slot.DaysPerWeek)
	}
	if hasDuplicates(lower(c.Days)) {
		return fmt.Errorf("%w: day names contain duplicates", ErrInvalid)
	}
	for _, d := range c.Days {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("%w: day names must not be blank", ErrInvalid)
		}
	}
	if err := c.validateHours(); err != nil {
		return err
	}
	if err := c.validateCategories(); err != nil {
		return err
	}
	if !contains(c.CategoryNames(), c.Defaults.Category) {
		return fmt.Errorf("%w: default category %q not in categories list", ErrInvalid, c.Defaults.Category)
	}
	if c.Storage.Key != "" && store.ValidateKey(c.Storage.Key) != nil {
		return fmt.Errorf("%w: invalid storage.key %q", ErrInvalid, c.Storage.Key)
	}
	if c.Theme != "" && !contains(Themes, c.Theme) {
		return fmt.Errorf("%w: theme must be one of %s", ErrInvalid, strings.Join(Themes, ", "))
	}
	return nil
}

func (c *Config) validateHours() error {
	if len(c.Hours) == 0 {
		return fmt.Errorf("%w: at least 1 hour is required", ErrInvalid)
	}
	seen := make(map[int]bool, len(c.Hours))
	for _, h := range c.Hours {
		if h < 0 || h > 23 { //nolint:mnd // hours of a day
			return fmt.Errorf("%w: hour %d out of range 0-23", ErrInvalid, h)
		}
		if seen[h] {
			return fmt.Errorf("%w: hours contain duplicates", ErrInvalid)
		}
		seen[h] = true
	}
	if !slices.IsSorted(c.Hours) {
		return fmt.Errorf("%w: hours must be in ascending order", ErrInvalid)
	}
	return nil
}

func (c *Config) validateCategories() error {
	if len(c.Categories) < 1 {
		return fmt.Errorf("%w: at least 1 category is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("%w: category name is required", ErrInvalid)
		}
		if seen[cat.Name] {
			return fmt.Errorf("%w: duplicate category name %q", ErrInvalid, cat.Name)
		}
		seen[cat.Name] = true
		if cat.Color != "" && !colorRe.MatchString(cat.Color) {
			return fmt.Errorf("%w: category %q color %q is not a #RRGGBB value", ErrInvalid, cat.Name, cat.Color)
		}
	}
	return nil
}

// Init creates a new board in the given directory.
// It creates the board directory, data subdirectory, and config file.
func Init(dir string, cfg *Config) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(filepath.Join(absDir, ConfigFileName)); err == nil {
		return nil, clierr.Newf(clierr.BoardAlreadyExists, "board already exists in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg.SetDir(absDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no weekgrid board found (run 'weekgrid init' to create one)")
		}
		dir = parent
	}
}

// HomeDir returns the per-user board directory, ~/.config/weekgrid.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", DefaultDir), nil
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
