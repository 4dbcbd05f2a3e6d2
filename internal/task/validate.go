package task

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/slot"
)

// Rules holds the allowed values for task fields on a board.
type Rules struct {
	DayNames   []string // index i names day i+1
	Hours      []int
	Categories []string
}

// DefaultRules returns the rules of a freshly initialized board.
func DefaultRules() Rules {
	return Rules{
		DayNames:   append([]string{}, slot.DefaultDayNames...),
		Hours:      append([]int{}, slot.DefaultHours...),
		Categories: []string{"work", "personal", "other"},
	}
}

// DayName returns the configured name of a day number, or "" if out of range.
func (r Rules) DayName(day int) string {
	if day < 1 || day > len(r.DayNames) {
		return ""
	}
	return r.DayNames[day-1]
}

// Days returns the allowed day numbers in order.
func (r Rules) Days() []int {
	days := make([]int, len(r.DayNames))
	for i := range r.DayNames {
		days[i] = i + 1
	}
	return days
}

// Validate checks every field of a prospective task. The name is checked
// after trimming surrounding whitespace.
func (r Rules) Validate(name string, day, hour int, category string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := r.ValidateSlot(day, hour); err != nil {
		return err
	}
	return r.ValidateCategory(category)
}

// ValidateSlot checks that day and hour are within the allowed sets.
func (r Rules) ValidateSlot(day, hour int) error {
	if err := r.ValidateDay(day); err != nil {
		return err
	}
	return r.ValidateHour(hour)
}

// ValidateDay checks that day is one of the board's day numbers.
func (r Rules) ValidateDay(day int) error {
	if day < 1 || day > len(r.DayNames) {
		return clierr.Newf(clierr.InvalidDay, "invalid day %d (allowed 1-%d)", day, len(r.DayNames)).
			WithDetails(map[string]any{
				"day":     day,
				"allowed": r.Days(),
			})
	}
	return nil
}

// ValidateHour checks that hour is one of the allowed start hours.
func (r Rules) ValidateHour(hour int) error {
	if !slices.Contains(r.Hours, hour) {
		return clierr.Newf(clierr.InvalidHour, "invalid hour %d", hour).
			WithDetails(map[string]any{
				"hour":    hour,
				"allowed": r.Hours,
			})
	}
	return nil
}

// ValidateCategory checks that a category is in the allowed list.
func (r Rules) ValidateCategory(category string) error {
	if slices.Contains(r.Categories, category) {
		return nil
	}
	return clierr.Newf(clierr.InvalidCategory, "invalid category %q", category).
		WithDetails(map[string]any{
			"category": category,
			"allowed":  r.Categories,
		})
}

// ValidateName rejects blank names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return clierr.New(clierr.InvalidName, "task name is required")
	}
	return nil
}

// ParseDay normalizes a day typed by a user ("3", "wed") and checks it
// against the board.
func (r Rules) ParseDay(input string) (int, error) {
	day, err := slot.ParseDay(input, r.DayNames)
	if err != nil {
		return 0, clierr.Newf(clierr.InvalidDay, "invalid day: %v", err).
			WithDetails(map[string]any{
				"input":   input,
				"allowed": r.DayNames,
			})
	}
	if err := r.ValidateDay(day); err != nil {
		return 0, err
	}
	return day, nil
}

// ParseHour normalizes an hour typed by a user ("14", "2pm") and checks it
// against the board.
func (r Rules) ParseHour(input string) (int, error) {
	hour, err := slot.ParseHour(input)
	if err != nil {
		return 0, clierr.Newf(clierr.InvalidHour, "invalid hour: %v", err).
			WithDetails(map[string]any{
				"input":   input,
				"allowed": r.Hours,
			})
	}
	if err := r.ValidateHour(hour); err != nil {
		return 0, err
	}
	return hour, nil
}

// ParseSlot normalizes a day and hour pair from text input.
func (r Rules) ParseSlot(dayInput, hourInput string) (slot.Slot, error) {
	day, err := r.ParseDay(dayInput)
	if err != nil {
		return slot.Slot{}, err
	}
	hour, err := r.ParseHour(hourInput)
	if err != nil {
		return slot.Slot{}, err
	}
	return slot.Slot{Day: day, Hour: hour}, nil
}

// ValidateTaskID returns a CLIError for malformed task id input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns a CLIError for an unknown task id.
func NotFound(id string) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

// SlotOccupied returns a CLIError for a slot already held by another task.
func SlotOccupied(day, hour int, holder Task) *clierr.Error {
	return clierr.Newf(clierr.SlotOccupied, "This time slot is already occupied! (%s at %s)",
		holder.Name, slot.FormatHour(hour)).
		WithDetails(map[string]any{
			"day":         day,
			"hour":        hour,
			"occupied_by": holder.ID,
		})
}
