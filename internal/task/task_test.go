package task

import (
	"testing"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []Task{
		{ID: "a", Name: "Team Meeting", Day: 1, Hour: 10, Category: "work"},
		{ID: "b", Name: "Gym Session", Day: 5, Hour: 17, Category: "personal"},
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d tasks, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("task %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestDecodeStringFields(t *testing.T) {
	data := []byte(`[{"id":"1700000000000","name":"Lunch","day":"3","hour":"12","category":"personal"}]`)
	tasks, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tasks[0].Day != 3 || tasks[0].Hour != 12 {
		t.Errorf("got day=%d hour=%d, want 3/12", tasks[0].Day, tasks[0].Hour)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	bad := []string{
		`{"id":"x"}`,
		`[{"id":"x","name":"n","day":"mon","hour":9,"category":"work"}]`,
		`[{"id":"x","name":"n","day":null,"hour":9,"category":"work"}]`,
		`[{"name":"n","day":1,"hour":9,"category":"work"}]`,
	}
	for _, in := range bad {
		if _, err := Decode([]byte(in)); err == nil {
			t.Errorf("Decode(%s) expected error", in)
		}
	}
}

func TestDecodeEmpty(t *testing.T) {
	tasks, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil): %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestEncodeNilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("got %s, want []", data)
	}
}

func TestRulesValidate(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		name     string
		taskName string
		day      int
		hour     int
		category string
		code     string
	}{
		{"valid", "Standup", 1, 9, "work", ""},
		{"blank name", "   ", 1, 9, "work", clierr.InvalidName},
		{"day too low", "x", 0, 9, "work", clierr.InvalidDay},
		{"day too high", "x", 8, 9, "work", clierr.InvalidDay},
		{"hour outside set", "x", 1, 8, "work", clierr.InvalidHour},
		{"unknown category", "x", 1, 9, "errand", clierr.InvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Validate(tt.taskName, tt.day, tt.hour, tt.category)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !clierr.HasCode(err, tt.code) {
				t.Fatalf("expected code %s, got %v", tt.code, err)
			}
		})
	}
}

func TestRulesParseSlot(t *testing.T) {
	r := DefaultRules()
	s, err := r.ParseSlot("wed", "2pm")
	if err != nil {
		t.Fatalf("ParseSlot: %v", err)
	}
	if s.Day != 3 || s.Hour != 14 {
		t.Errorf("got %v, want 3/14", s)
	}

	if _, err := r.ParseSlot("8", "10"); !clierr.HasCode(err, clierr.InvalidDay) {
		t.Errorf("expected INVALID_DAY, got %v", err)
	}
	if _, err := r.ParseSlot("1", "abc"); !clierr.HasCode(err, clierr.InvalidHour) {
		t.Errorf("expected INVALID_HOUR, got %v", err)
	}
	if _, err := r.ParseSlot("1", "7pm"); !clierr.HasCode(err, clierr.InvalidHour) {
		t.Errorf("expected INVALID_HOUR for hour outside set, got %v", err)
	}
}

func TestDayName(t *testing.T) {
	r := DefaultRules()
	if got := r.DayName(7); got != "Sunday" {
		t.Errorf("DayName(7) = %q", got)
	}
	if got := r.DayName(0); got != "" {
		t.Errorf("DayName(0) = %q, want empty", got)
	}
}
