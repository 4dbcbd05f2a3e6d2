// Package schedule owns the task collection of a board. It enforces the
// one-task-per-slot rule, mirrors every mutation to a Store, and tells a
// Notifier whenever the collection changes.
//
// A Manager is not safe for concurrent use; callers run one operation to
// completion before starting the next.
package schedule

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/store"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

// DefaultKey is the storage key the collection is saved under.
const DefaultKey = "weeklyCalendarTasks"

// Notifier is told about every committed change, with a snapshot of the
// collection it may keep.
type Notifier interface {
	Changed(tasks []task.Task)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(tasks []task.Task)

// Changed implements Notifier.
func (f NotifierFunc) Changed(tasks []task.Task) { f(tasks) }

type nopNotifier struct{}

func (nopNotifier) Changed([]task.Task) {}

// Option configures a Manager.
type Option func(*Manager)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(m *Manager) { m.key = key }
}

// WithNotifier sets the change listener.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// Manager holds the in-memory collection and its persistence lifecycle.
type Manager struct {
	store    store.Store
	key      string
	rules    task.Rules
	notifier Notifier
	newID    func() string
	log      *slog.Logger

	tasks []task.Task
}

// New constructs a Manager with an empty collection. Call Load to read the
// persisted state.
func New(st store.Store, rules task.Rules, opts ...Option) *Manager {
	m := &Manager{
		store:    st,
		key:      DefaultKey,
		rules:    rules,
		notifier: nopNotifier{},
		newID:    func() string { return uuid.New().String() },
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rules returns the validation rules the manager enforces.
func (m *Manager) Rules() task.Rules {
	return m.rules
}

// Load replaces the collection with the persisted one. An absent key yields
// an empty collection. Persisted data that fails validation or holds two
// tasks in one slot is rejected and the current collection is kept.
func (m *Manager) Load() error {
	data, ok, err := m.store.Load(m.key)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	if !ok {
		m.log.Debug("no stored tasks", "key", m.key)
		m.tasks = nil
		return nil
	}

	tasks, err := task.Decode(data)
	if err != nil {
		return corrupt(m.key, err)
	}
	m.dedupeIDs(tasks)
	if err := m.checkCollection(tasks); err != nil {
		return corrupt(m.key, err)
	}

	m.tasks = tasks
	m.log.Debug("loaded tasks", "key", m.key, "count", len(tasks))
	return nil
}

// Tasks returns a copy of the collection in insertion order.
func (m *Manager) Tasks() []task.Task {
	return slices.Clone(m.tasks)
}

// Len returns the number of tasks in the collection.
func (m *Manager) Len() int {
	return len(m.tasks)
}

// Get returns the task with the given id.
func (m *Manager) Get(id string) (task.Task, error) {
	i := m.indexOf(id)
	if i < 0 {
		return task.Task{}, task.NotFound(id)
	}
	return m.tasks[i], nil
}

// minPrefix is the shortest id prefix Resolve accepts.
const minPrefix = 4

// Resolve finds a task by its full id or by an unambiguous id prefix of at
// least four characters.
func (m *Manager) Resolve(ref string) (task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return task.Task{}, task.ValidateTaskID(ref)
	}
	if t, err := m.Get(ref); err == nil {
		return t, nil
	}
	if len(ref) < minPrefix {
		return task.Task{}, task.NotFound(ref)
	}

	var matches []task.Task
	for _, t := range m.tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, task.NotFound(ref)
	case 1:
		return matches[0], nil
	default:
		return task.Task{}, clierr.Newf(clierr.InvalidTaskID,
			"ambiguous task ID %q matches %d tasks", ref, len(matches)).
			WithDetails(map[string]any{"input": ref, "matches": len(matches)})
	}
}

// At returns the task occupying a slot, if any.
func (m *Manager) At(day, hour int) (task.Task, bool) {
	if i := occupant(m.tasks, day, hour, ""); i >= 0 {
		return m.tasks[i], true
	}
	return task.Task{}, false
}

// Create validates and appends a new task with a fresh id. A task already in
// the slot yields a SLOT_OCCUPIED error and leaves the collection untouched.
func (m *Manager) Create(name string, day, hour int, category string) (task.Task, error) {
	name = strings.TrimSpace(name)
	if err := m.rules.Validate(name, day, hour, category); err != nil {
		return task.Task{}, err
	}
	if i := occupant(m.tasks, day, hour, ""); i >= 0 {
		return task.Task{}, task.SlotOccupied(day, hour, m.tasks[i])
	}

	t := task.Task{ID: m.newID(), Name: name, Day: day, Hour: hour, Category: category}
	next := append(slices.Clone(m.tasks), t)
	if err := m.commit(next); err != nil {
		return task.Task{}, err
	}
	m.log.Debug("created task", "id", t.ID, "slot", t.Slot().String())
	return t, nil
}

// Move reassigns a task to another slot. Another task in the target slot
// yields SLOT_OCCUPIED; an unknown id yields TASK_NOT_FOUND. Moving a task
// onto its own slot succeeds with changed=false.
func (m *Manager) Move(id string, day, hour int) (t task.Task, changed bool, err error) {
	if err := m.rules.ValidateSlot(day, hour); err != nil {
		return task.Task{}, false, err
	}
	if i := occupant(m.tasks, day, hour, id); i >= 0 {
		return task.Task{}, false, task.SlotOccupied(day, hour, m.tasks[i])
	}
	i := m.indexOf(id)
	if i < 0 {
		return task.Task{}, false, task.NotFound(id)
	}

	next := slices.Clone(m.tasks)
	changed = !next[i].At(day, hour)
	next[i].Day = day
	next[i].Hour = hour
	if err := m.commit(next); err != nil {
		return task.Task{}, false, err
	}
	m.log.Debug("moved task", "id", id, "slot", next[i].Slot().String(), "changed", changed)
	return next[i], changed, nil
}

// Delete removes the task with the given id. Unknown ids are not an error;
// the collection is persisted and listeners notified either way.
func (m *Manager) Delete(id string) error {
	next := slices.DeleteFunc(slices.Clone(m.tasks), func(t task.Task) bool {
		return t.ID == id
	})
	if err := m.commit(next); err != nil {
		return err
	}
	m.log.Debug("deleted task", "id", id, "remaining", len(next))
	return nil
}

// ClearAll empties the collection.
func (m *Manager) ClearAll() error {
	if err := m.commit(nil); err != nil {
		return err
	}
	m.log.Debug("cleared all tasks")
	return nil
}

// Edit replaces every field of a task but its id. It runs as a compensating
// transaction: the original is captured and taken out of the collection, the
// new version is checked against what remains, and on a slot conflict the
// original is reinstated at its position with its id, leaving the collection
// exactly as it was. Nothing is persisted or announced on conflict.
func (m *Manager) Edit(id, name string, day, hour int, category string) (task.Task, error) {
	name = strings.TrimSpace(name)
	if err := m.rules.Validate(name, day, hour, category); err != nil {
		return task.Task{}, err
	}

	i := m.indexOf(id)
	if i < 0 {
		return task.Task{}, task.NotFound(id)
	}
	original := m.tasks[i]

	remaining := slices.Delete(slices.Clone(m.tasks), i, i+1)
	if j := occupant(remaining, day, hour, ""); j >= 0 {
		m.log.Debug("edit rolled back", "id", id, "slot", fmt.Sprintf("%d/%d", day, hour))
		return task.Task{}, task.SlotOccupied(day, hour, remaining[j])
	}

	updated := task.Task{ID: original.ID, Name: name, Day: day, Hour: hour, Category: category}
	next := slices.Insert(remaining, i, updated)
	if err := m.commit(next); err != nil {
		return task.Task{}, err
	}
	m.log.Debug("edited task", "id", id, "slot", updated.Slot().String())
	return updated, nil
}

// Sample is a task used to populate an empty board.
type Sample struct {
	Name     string
	Day      int
	Hour     int
	Category string
}

// DemoTasks are the tasks a new board is seeded with on request.
var DemoTasks = []Sample{
	{"Team Meeting", 1, 10, "work"},
	{"Lunch with Alex", 3, 12, "personal"},
	{"Gym Session", 5, 17, "personal"},
	{"Project Deadline", 4, 15, "work"},
	{"Doctor Appointment", 2, 14, "other"},
}

// Seed creates the given samples when the collection is empty. Samples that
// do not fit the board's rules are skipped. Returns how many were created.
func (m *Manager) Seed(samples []Sample) (int, error) {
	if len(m.tasks) > 0 {
		return 0, nil
	}
	created := 0
	for _, s := range samples {
		_, err := m.Create(s.Name, s.Day, s.Hour, s.Category)
		var cliErr *clierr.Error
		switch {
		case err == nil:
			created++
		case errors.As(err, &cliErr):
			m.log.Debug("skipping sample", "name", s.Name, "reason", cliErr.Code)
		default:
			return created, err
		}
	}
	return created, nil
}

// commit persists next and, once the write succeeded, installs it as the
// collection and notifies the listener.
func (m *Manager) commit(next []task.Task) error {
	data, err := task.Encode(next)
	if err != nil {
		return err
	}
	if err := m.store.Save(m.key, data); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	m.tasks = next
	m.notifier.Changed(m.Tasks())
	return nil
}

func (m *Manager) indexOf(id string) int {
	return slices.IndexFunc(m.tasks, func(t task.Task) bool { return t.ID == id })
}

// checkCollection validates a loaded collection in full.
// dedupeIDs gives every task after the first one carrying an id a fresh id.
// Millisecond-timestamp ids written by older clients can collide. The new
// ids are persisted by the next committed mutation.
func (m *Manager) dedupeIDs(tasks []task.Task) {
	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		if seen[tasks[i].ID] {
			id := m.newID()
			m.log.Debug("reassigned duplicate task id", "key", m.key, "old", tasks[i].ID, "new", id)
			tasks[i].ID = id
		}
		seen[tasks[i].ID] = true
	}
}

func (m *Manager) checkCollection(tasks []task.Task) error {
	for i, t := range tasks {
		if err := m.rules.Validate(t.Name, t.Day, t.Hour, t.Category); err != nil {
			return fmt.Errorf("task %q: %w", t.ID, err)
		}
		if j := occupant(tasks[:i], t.Day, t.Hour, ""); j >= 0 {
			return fmt.Errorf("tasks %q and %q share slot %s", tasks[j].ID, t.ID, t.Slot())
		}
	}
	return nil
}

// occupant returns the index of the task at (day, hour) other than exclude,
// or -1.
func occupant(tasks []task.Task, day, hour int, exclude string) int {
	return slices.IndexFunc(tasks, func(t task.Task) bool {
		return t.At(day, hour) && (exclude == "" || t.ID != exclude)
	})
}

func corrupt(key string, err error) error {
	return clierr.Newf(clierr.CorruptStore, "stored tasks under %q are unreadable: %v", key, err).
		WithDetails(map[string]any{"key": key})
}
