// Package output renders weekgrid data for the terminal: styled tables,
// one-line compact records, JSON for scripts, and markdown.
package output

import (
	"os"
	"strings"
)

// Format is an output format.
type Format int

// Formats, in the order --json, --compact, --table take precedence.
const (
	FormatTable Format = iota
	FormatJSON
	FormatCompact
)

// EnvVar selects the output format when no flag does.
const EnvVar = "WEEKGRID_OUTPUT"

var formatNames = map[string]Format{
	"table":   FormatTable,
	"json":    FormatJSON,
	"compact": FormatCompact,
	"oneline": FormatCompact,
}

// ParseFormat reads a format name as accepted in EnvVar.
func ParseFormat(name string) (Format, bool) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCompact:
		return "compact"
	default:
		return "table"
	}
}

// Detect picks the format from the global flags, then EnvVar, then table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := ParseFormat(os.Getenv(EnvVar)); ok {
		return f
	}
	return FormatTable
}
