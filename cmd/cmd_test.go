package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/config"
	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

func TestParseRefs(t *testing.T) {
	got := parseRefs(" abcd, ,ef01,abcd ")
	want := []string{"abcd", "ef01"}
	if !slices.Equal(got, want) {
		t.Errorf("parseRefs = %v, want %v", got, want)
	}
	if refs := parseRefs(" , "); len(refs) != 0 {
		t.Errorf("parseRefs of blanks = %v, want none", refs)
	}
}

func TestParseCategories(t *testing.T) {
	cats := parseCategories([]string{"work", "errands:#112233", "misc"})
	want := []config.CategoryConfig{
		{Name: "work", Color: "#4A90E2"},
		{Name: "errands", Color: "#112233"},
		{Name: "misc"},
	}
	if !slices.Equal(cats, want) {
		t.Errorf("parseCategories = %+v, want %+v", cats, want)
	}
}

func TestSetTheme(t *testing.T) {
	cfg := config.NewDefault("t")

	if err := setTheme(cfg, "Dark"); err != nil {
		t.Fatalf("setTheme(Dark): %v", err)
	}
	if cfg.Theme != config.ThemeDark {
		t.Errorf("theme = %q, want dark", cfg.Theme)
	}

	if err := setTheme(cfg, "toggle"); err != nil {
		t.Fatalf("setTheme(toggle): %v", err)
	}
	if cfg.Theme != config.ThemeLight {
		t.Errorf("theme after toggle = %q, want light", cfg.Theme)
	}

	err := setTheme(cfg, "neon")
	if !clierr.HasCode(err, clierr.InvalidInput) {
		t.Errorf("setTheme(neon) = %v, want INVALID_INPUT", err)
	}
	if cfg.Theme != config.ThemeLight {
		t.Errorf("invalid theme changed config to %q", cfg.Theme)
	}
}

func TestNormalizeTaskFlags(t *testing.T) {
	tests := map[string]string{
		"cat":      "category",
		"title":    "name",
		"time":     "hour",
		"day":      "day",
		"category": "category",
	}
	for in, want := range tests {
		if got := string(normalizeTaskFlags(nil, in)); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatConfigValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{[]string{"a", "b"}, "a, b"},
		{[]int{9, 12, 15}, "9 AM, 12 PM, 3 PM"},
		{"", "--"},
		{"dark", "dark"},
		{2, "2"},
	}
	for _, tt := range tests {
		if got := formatConfigValue(tt.in); got != tt.want {
			t.Errorf("formatConfigValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// resetFlags puts every flag of c and its subcommands back to its default,
// since rootCmd is reused across Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// newTestBoard initializes a sample board in a temp dir and returns it with a
// function that runs the CLI against it.
func newTestBoard(t *testing.T) (string, func(args ...string) error) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "weekgrid")
	run := func(args ...string) error {
		resetFlags(rootCmd)
		rootCmd.SetArgs(append(args, "--dir", dir))
		return rootCmd.Execute()
	}
	t.Cleanup(func() {
		resetFlags(rootCmd)
		flagDir = ""
	})

	if err := run("init", "--name", "test", "--sample"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir, run
}

func boardTasks(t *testing.T, dir string) []task.Task {
	t.Helper()
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	mgr, err := openManager(cfg)
	if err != nil {
		t.Fatalf("open manager: %v", err)
	}
	return mgr.Tasks()
}

func taskNamed(t *testing.T, tasks []task.Task, name string) task.Task {
	t.Helper()
	i := slices.IndexFunc(tasks, func(t task.Task) bool { return t.Name == name })
	if i < 0 {
		t.Fatalf("no task named %q in %+v", name, tasks)
	}
	return tasks[i]
}

func TestCommandsAgainstBoard(t *testing.T) {
	dir, run := newTestBoard(t)

	if err := run("init"); !clierr.HasCode(err, clierr.BoardAlreadyExists) {
		t.Fatalf("second init = %v, want BOARD_ALREADY_EXISTS", err)
	}

	if err := run("create", "Focus time", "--day", "tue", "--hour", "9am"); err != nil {
		t.Fatalf("create: %v", err)
	}

	tasks := boardTasks(t, dir)
	if len(tasks) != len(schedule.DemoTasks)+1 {
		t.Fatalf("have %d tasks, want %d", len(tasks), len(schedule.DemoTasks)+1)
	}
	focus := taskNamed(t, tasks, "Focus time")
	if focus.Day != 2 || focus.Hour != 9 || focus.Category != config.DefaultCategory {
		t.Fatalf("created task = %+v", focus)
	}

	// Team Meeting holds Monday 10 AM.
	err := run("move", focus.ID[:8], "monday", "10")
	if !clierr.HasCode(err, clierr.SlotOccupied) {
		t.Fatalf("move onto Team Meeting = %v, want SLOT_OCCUPIED", err)
	}

	if err := run("move", focus.ID, "sat", "11"); err != nil {
		t.Fatalf("move: %v", err)
	}
	moved := taskNamed(t, boardTasks(t, dir), "Focus time")
	if moved.ID != focus.ID || moved.Day != 6 || moved.Hour != 11 {
		t.Errorf("moved task = %+v, want %s at 6/11", moved, focus.ID)
	}
}

func TestCommandsRefuseWithoutChange(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T, tasks []task.Task) []string
		code string
	}{
		{
			name: "edit without flags",
			args: func(t *testing.T, tasks []task.Task) []string {
				return []string{"edit", taskNamed(t, tasks, "Gym Session").ID}
			},
			code: clierr.NoChanges,
		},
		{
			name: "edit onto occupied slot",
			args: func(t *testing.T, tasks []task.Task) []string {
				// Lunch with Alex holds Wednesday noon.
				return []string{"edit", taskNamed(t, tasks, "Gym Session").ID, "--day", "wed", "--hour", "12pm", "--name", "Swim"}
			},
			code: clierr.SlotOccupied,
		},
		{
			name: "delete without --yes",
			args: func(t *testing.T, tasks []task.Task) []string {
				return []string{"delete", taskNamed(t, tasks, "Team Meeting").ID}
			},
			code: clierr.ConfirmationReq,
		},
		{
			name: "batch delete without --yes",
			args: func(t *testing.T, tasks []task.Task) []string {
				return []string{"delete", tasks[0].ID + "," + tasks[1].ID}
			},
			code: clierr.ConfirmationReq,
		},
		{
			name: "clear without --yes",
			args: func(*testing.T, []task.Task) []string { return []string{"clear"} },
			code: clierr.ConfirmationReq,
		},
		{
			name: "hours that strand a task",
			args: func(*testing.T, []task.Task) []string {
				// Gym Session sits at 5 PM.
				return []string{"config", "set", "hours", "9-16"}
			},
			code: clierr.InvalidHour,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, run := newTestBoard(t)
			before := boardTasks(t, dir)

			err := run(tt.args(t, before)...)
			if !clierr.HasCode(err, tt.code) {
				t.Fatalf("got %v, want %s", err, tt.code)
			}

			if after := boardTasks(t, dir); !slices.Equal(after, before) {
				t.Errorf("tasks changed:\n before %+v\n after  %+v", before, after)
			}
			cfg, err := config.Load(dir)
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if !slices.Equal(cfg.Hours, config.DefaultHours) {
				t.Errorf("hours changed to %v", cfg.Hours)
			}
		})
	}
}

func TestConfigSetHoursThatFit(t *testing.T) {
	dir, run := newTestBoard(t)

	if err := run("config", "set", "hours", "8-18"); err != nil {
		t.Fatalf("config set hours: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Hours) != 11 || cfg.Hours[0] != 8 || cfg.Hours[10] != 18 {
		t.Errorf("hours = %v, want 8-18", cfg.Hours)
	}
}

func TestImportReportsPerRecordFailures(t *testing.T) {
	dir, run := newTestBoard(t)
	before := len(boardTasks(t, dir))

	file := filepath.Join(t.TempDir(), "week.json")
	data := `[
		{"name": "Standup", "day": "1", "hour": "9", "category": "work"},
		{"name": "Clash", "day": 1, "hour": 9, "category": "work"},
		{"name": "Reading", "day": 2, "hour": 9}
	]`
	if err := os.WriteFile(file, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	err := run("import", file)
	var silent *clierr.SilentError
	if !errors.As(err, &silent) || silent.Code != 1 {
		t.Fatalf("import = %v, want silent exit 1", err)
	}

	tasks := boardTasks(t, dir)
	if len(tasks) != before+2 {
		t.Fatalf("have %d tasks, want %d", len(tasks), before+2)
	}
	standup := taskNamed(t, tasks, "Standup")
	if standup.Day != 1 || standup.Hour != 9 {
		t.Errorf("Standup = %+v, want Mon 9", standup)
	}
	if slices.ContainsFunc(tasks, func(t task.Task) bool { return t.Name == "Clash" }) {
		t.Error("conflicting record was imported")
	}
	if reading := taskNamed(t, tasks, "Reading"); reading.Category != config.DefaultCategory {
		t.Errorf("Reading category = %q, want %q", reading.Category, config.DefaultCategory)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, ext := range []string{"json", "yaml", "toml"} {
		t.Run(ext, func(t *testing.T) {
			dir, run := newTestBoard(t)
			before := boardTasks(t, dir)

			file := filepath.Join(t.TempDir(), "week."+ext)
			if err := run("export", "--output", file); err != nil {
				t.Fatalf("export: %v", err)
			}
			if err := run("clear", "--yes"); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if n := len(boardTasks(t, dir)); n != 0 {
				t.Fatalf("clear left %d tasks", n)
			}
			if err := run("import", file); err != nil {
				t.Fatalf("import: %v", err)
			}

			after := boardTasks(t, dir)
			if len(after) != len(before) {
				t.Fatalf("have %d tasks after import, want %d", len(after), len(before))
			}
			for _, want := range before {
				got := taskNamed(t, after, want.Name)
				if got.Day != want.Day || got.Hour != want.Hour || got.Category != want.Category {
					t.Errorf("%s came back as %+v, want %+v", want.Name, got, want)
				}
			}
		})
	}
}
