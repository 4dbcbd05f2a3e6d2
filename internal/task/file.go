package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Encode serializes a collection as a JSON array of task records, in order.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshaling tasks: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of task records. Day and hour may be stored as
// numbers or as numeric strings; both are normalized to ints. Empty input
// decodes to an empty collection.
func Decode(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}

	tasks, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}
	for i, t := range tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("parsing tasks: record %d has no id", i)
		}
	}
	return tasks, nil
}

func decodeRecords(data []byte) ([]Task, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing tasks: %w", err)
	}

	tasks := make([]Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, Task{
			ID:       r.ID,
			Name:     r.Name,
			Day:      int(r.Day),
			Hour:     int(r.Hour),
			Category: r.Category,
		})
	}
	return tasks, nil
}

// record is the persisted shape of a task. Browser-era data kept day and
// hour as form strings, so those fields accept either form.
type record struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Day      flexInt `json:"day"`
	Hour     flexInt `json:"hour"`
	Category string  `json:"category"`
}

// flexInt unmarshals from a JSON number or a string holding an integer.
type flexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return errors.New("missing integer value")
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s", string(data))
	}
	*f = flexInt(n)
	return nil
}
