// Package slot names the coordinates of the week grid: days, start hours,
// and the (day, hour) pairs tasks occupy.
package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DaysPerWeek is the fixed number of day columns. Day numbers run 1..7.
const DaysPerWeek = 7

const (
	noon        = 12
	hoursPerDay = 24
)

// Default slice values for a new board (slices cannot be const).
var (
	DefaultDayNames = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}

	DefaultHours = []int{9, 10, 11, 12, 13, 14, 15, 16, 17}
)

// ErrNotNumeric is returned when a day or hour cannot be read as a number or name.
var ErrNotNumeric = errors.New("not a number")

// Slot is a (day, hour) coordinate. At most one task may occupy a slot.
type Slot struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// String returns the slot as "day/hour", e.g. "3/14".
func (s Slot) String() string {
	return strconv.Itoa(s.Day) + "/" + strconv.Itoa(s.Hour)
}

// ParseDay reads a day as a number ("3") or as a name or unambiguous
// prefix of one of names ("wed", "Wednesday"). The result is not range
// checked against the board; numeric input is returned as is.
func ParseDay(input string, names []string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, errors.New("day is empty")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	lower := strings.ToLower(s)
	match := 0
	for i, name := range names {
		n := strings.ToLower(name)
		if n == lower {
			return i + 1, nil
		}
		if len(lower) >= 2 && strings.HasPrefix(n, lower) { //nolint:mnd // two letters separate Tue/Thu
			if match != 0 {
				return 0, fmt.Errorf("day %q is ambiguous", input)
			}
			match = i + 1
		}
	}
	if match == 0 {
		return 0, fmt.Errorf("day %q: %w", input, ErrNotNumeric)
	}
	return match, nil
}

// ParseHour reads a start hour written as "14", "14:00", "2pm" or "2 PM".
// Minutes other than ":00" are rejected because slots are whole hours.
func ParseHour(input string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0, errors.New("hour is empty")
	}

	suffix := ""
	if strings.HasSuffix(s, "am") || strings.HasSuffix(s, "pm") {
		suffix = s[len(s)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}
	if before, after, ok := strings.Cut(s, ":"); ok {
		if after != "00" {
			return 0, fmt.Errorf("hour %q must start on the hour", input)
		}
		s = before
	}

	h, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("hour %q: %w", input, ErrNotNumeric)
	}

	switch suffix {
	case "am", "pm":
		if h < 1 || h > noon {
			return 0, fmt.Errorf("hour %q is not a 12-hour clock value", input)
		}
		if h == noon {
			h = 0
		}
		if suffix == "pm" {
			h += noon
		}
	default:
		if h < 0 || h >= hoursPerDay {
			return 0, fmt.Errorf("hour %q is outside 0-23", input)
		}
	}
	return h, nil
}

// FormatHour renders a 24-hour start hour in 12-hour form: "9 AM", "12 PM", "3 PM".
func FormatHour(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < noon:
		return strconv.Itoa(hour) + " AM"
	case hour == noon:
		return "12 PM"
	default:
		return strconv.Itoa(hour-noon) + " PM"
	}
}

// ParseHourRange expands "9-17" into 9..17 inclusive, or a comma-separated
// list "9,10,14" into its members.
func ParseHourRange(input string) ([]int, error) {
	s := strings.TrimSpace(input)
	if from, to, ok := strings.Cut(s, "-"); ok {
		lo, err := ParseHour(from)
		if err != nil {
			return nil, err
		}
		hi, err := ParseHour(to)
		if err != nil {
			return nil, err
		}
		if hi < lo {
			return nil, fmt.Errorf("hour range %q ends before it starts", input)
		}
		hours := make([]int, 0, hi-lo+1)
		for h := lo; h <= hi; h++ {
			hours = append(hours, h)
		}
		return hours, nil
	}

	var hours []int
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		h, err := ParseHour(part)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	if len(hours) == 0 {
		return nil, errors.New("no hours given")
	}
	return hours, nil
}

// ShortDay returns the first three letters of a day name.
func ShortDay(name string) string {
	const short = 3
	r := []rune(name)
	if len(r) <= short {
		return name
	}
	return string(r[:short])
}
