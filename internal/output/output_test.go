package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

func init() {
	DisableColor()
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "0f8c2a9e-1111", Name: "Team Meeting", Day: 1, Hour: 10, Category: "work"},
		{ID: "7d41b6aa-2222", Name: "Lunch with Alex", Day: 3, Hour: 12, Category: "personal"},
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name                 string
		env                  string
		jsonF, table, compct bool
		want                 Format
	}{
		{"default", "", false, false, false, FormatTable},
		{"json flag", "", true, false, false, FormatJSON},
		{"compact flag wins over table", "", false, true, true, FormatCompact},
		{"env json", "json", false, false, false, FormatJSON},
		{"env oneline", "oneline", false, false, false, FormatCompact},
		{"flag beats env", "json", false, true, false, FormatTable},
		{"env case and space", " JSON ", false, false, false, FormatJSON},
		{"unknown env", "xml", false, false, false, FormatTable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Setenv(EnvVar, c.env)
			if got := Detect(c.jsonF, c.table, c.compct); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestTaskTable(t *testing.T) {
	var buf bytes.Buffer
	TaskTable(&buf, sampleTasks(), task.DefaultRules())
	out := buf.String()
	for _, want := range []string{"ID", "CATEGORY", "0f8c2a9e", "Monday", "10 AM", "Lunch with Alex", "12 PM"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "1111") {
		t.Error("ids should be shortened")
	}
}

func TestTaskCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, sampleTasks()[:1], task.DefaultRules())
	if got := strings.TrimSpace(buf.String()); got != "0f8c2a9e Mon 10 AM [work] Team Meeting" {
		t.Errorf("got %q", got)
	}
}

func TestGridTable(t *testing.T) {
	rules := task.DefaultRules()
	var buf bytes.Buffer
	GridTable(&buf, board.BuildGrid(sampleTasks(), rules))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1+len(rules.Hours) {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Mon") || !strings.Contains(lines[0], "Sun") {
		t.Errorf("header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "10 AM") || !strings.Contains(lines[2], "Team Mee") {
		t.Errorf("10 AM row %q", lines[2])
	}
}

func TestAgendaOutputs(t *testing.T) {
	agenda := board.BuildAgenda(sampleTasks(), task.DefaultRules())

	var buf bytes.Buffer
	AgendaTable(&buf, agenda)
	if !strings.Contains(buf.String(), board.NoTasksText) {
		t.Errorf("agenda should flag empty days:\n%s", buf.String())
	}

	buf.Reset()
	AgendaCompact(&buf, agenda)
	if !strings.Contains(buf.String(), "Wed: 12 Lunch with Alex") || !strings.Contains(buf.String(), "Sun: --") {
		t.Errorf("compact agenda:\n%s", buf.String())
	}
}

func TestAgendaMarkdown(t *testing.T) {
	tasks := append(sampleTasks(), task.Task{ID: "x", Name: "fix *all* bugs", Day: 2, Hour: 9, Category: "other"})
	md := AgendaMarkdown("Week", board.BuildAgenda(tasks, task.DefaultRules()))

	for _, want := range []string{"# Week", "## Monday", "- **10 AM** Team Meeting `work`", `fix \*all\* bugs`, "_No tasks for this day_"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	out, err := RenderMarkdown(md, 60, "notty")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(out, "Team Meeting") {
		t.Errorf("rendered:\n%s", out)
	}
}

func TestBar(t *testing.T) {
	stats := board.ComputeStats([]task.Task{
		{ID: "a", Name: "a", Day: 1, Hour: 9, Category: "work"},
		{ID: "b", Name: "b", Day: 1, Hour: 10, Category: "personal"},
		{ID: "c", Name: "c", Day: 2, Hour: 10, Category: "personal"},
	}, task.DefaultRules())

	mon := Bar(stats, stats.Days[0].Categories, 10)
	if mon != "##########" {
		t.Errorf("busiest day bar %q", mon)
	}
	tue := Bar(stats, stats.Days[1].Categories, 10)
	if tue != "#####     " {
		t.Errorf("half bar %q", tue)
	}
	empty := Bar(stats, stats.Days[6].Categories, 10)
	if lipgloss.Width(empty) != 10 || strings.TrimSpace(empty) != "" {
		t.Errorf("empty bar %q", empty)
	}
}

func TestStatsOutputs(t *testing.T) {
	stats := board.ComputeStats(sampleTasks(), task.DefaultRules())
	var buf bytes.Buffer
	StatsTable(&buf, "Week", stats)
	if !strings.Contains(buf.String(), "Total: 2 tasks") || !strings.Contains(buf.String(), "personal") {
		t.Errorf("stats table:\n%s", buf.String())
	}

	buf.Reset()
	StatsCompact(&buf, "Week", stats)
	if !strings.Contains(buf.String(), "Monday: 1 (work=1)") {
		t.Errorf("stats compact:\n%s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Doctor Appointment", 10); got != "Doctor ..." {
		t.Errorf("got %q", got)
	}
	if got := truncate("Gym", 10); got != "Gym" {
		t.Errorf("got %q", got)
	}
}

func TestLogCompact(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	entries := []board.LogEntry{
		{Timestamp: at, Action: "create", TaskID: "0f8c2a9e-1111", Detail: "Team Meeting"},
		{Timestamp: at, Action: "clear", Detail: "3 tasks"},
	}
	var buf bytes.Buffer
	LogCompact(&buf, entries)
	want := "2026-03-02T09:30:00Z create 0f8c2a9e Team Meeting\n" +
		"2026-03-02T09:30:00Z clear -- 3 tasks\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
