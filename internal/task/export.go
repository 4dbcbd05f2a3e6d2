package task

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats lists the supported export formats.
var Formats = []string{FormatJSON, FormatYAML, FormatTOML}

// document wraps the collection for formats that need a top-level table.
type document struct {
	Tasks []Task `toml:"tasks" yaml:"tasks"`
}

// Marshal renders tasks in the given format. JSON uses the same array shape
// the store persists.
func Marshal(tasks []Task, format string) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	switch format {
	case FormatJSON:
		return Encode(tasks)
	case FormatYAML:
		data, err := yaml.Marshal(document{Tasks: tasks})
		if err != nil {
			return nil, fmt.Errorf("marshaling yaml: %w", err)
		}
		return data, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(document{Tasks: tasks}); err != nil {
			return nil, fmt.Errorf("marshaling toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, unknownFormat(format)
	}
}

// Unmarshal reads tasks written by Marshal. Records are returned as found;
// ids may be empty since imported tasks get fresh ones.
func Unmarshal(data []byte, format string) ([]Task, error) {
	var doc document
	switch format {
	case FormatJSON:
		tasks, err := decodeRecords(data)
		if err != nil {
			return nil, clierr.Newf(clierr.InvalidFormat, "%v", err)
		}
		return tasks, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, clierr.Newf(clierr.InvalidFormat, "parsing yaml: %v", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, clierr.Newf(clierr.InvalidFormat, "parsing toml: %v", err)
		}
	default:
		return nil, unknownFormat(format)
	}
	return doc.Tasks, nil
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", clierr.Newf(clierr.InvalidFormat,
			"cannot tell the format of %s (use .json, .yaml or .toml)", path)
	}
}

func unknownFormat(format string) error {
	return clierr.Newf(clierr.InvalidFormat, "unknown format %q", format).
		WithDetails(map[string]any{"format": format, "allowed": Formats})
}
