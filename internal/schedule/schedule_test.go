package schedule

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/twiced-technology-gmbh/weekgrid/internal/clierr"
	"github.com/twiced-technology-gmbh/weekgrid/internal/store"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

// counter generates ids id-1, id-2, ... so tests can predict them.
func counter() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
}

type recorder struct {
	calls    int
	snapshot []task.Task
}

func (r *recorder) Changed(tasks []task.Task) {
	r.calls++
	r.snapshot = tasks
}

func newManager(t *testing.T) (*Manager, *store.MemoryStore, *recorder) {
	t.Helper()
	st := store.NewMemoryStore()
	rec := &recorder{}
	m := New(st, task.DefaultRules(), WithIDGenerator(counter()), WithNotifier(rec))
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m, st, rec
}

func mustCreate(t *testing.T, m *Manager, name string, day, hour int, category string) task.Task {
	t.Helper()
	created, err := m.Create(name, day, hour, category)
	if err != nil {
		t.Fatalf("Create(%q, %d, %d): %v", name, day, hour, err)
	}
	return created
}

// reload reads the persisted collection into a fresh manager.
func reload(t *testing.T, st store.Store) []task.Task {
	t.Helper()
	m := New(st, task.DefaultRules())
	if err := m.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return m.Tasks()
}

func assertNoSharedSlots(t *testing.T, tasks []task.Task) {
	t.Helper()
	seen := make(map[[2]int]string)
	for _, tk := range tasks {
		k := [2]int{tk.Day, tk.Hour}
		if other, ok := seen[k]; ok {
			t.Fatalf("tasks %s and %s share slot %v", other, tk.ID, k)
		}
		seen[k] = tk.ID
	}
}

func TestCreateOnEmptyCollection(t *testing.T) {
	m, st, rec := newManager(t)

	created := mustCreate(t, m, "Team Meeting", 1, 10, "work")
	if created.ID == "" {
		t.Fatal("expected an id")
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 task, got %d", m.Len())
	}
	if rec.calls != 1 || len(rec.snapshot) != 1 {
		t.Errorf("expected one notification with 1 task, got calls=%d len=%d", rec.calls, len(rec.snapshot))
	}
	if got := reload(t, st); len(got) != 1 || got[0] != created {
		t.Errorf("persisted %+v, want [%+v]", got, created)
	}
}

func TestCreateConflict(t *testing.T) {
	m, st, rec := newManager(t)
	mustCreate(t, m, "Team Meeting", 1, 10, "work")
	before, _, _ := st.Load(DefaultKey)

	_, err := m.Create("Standup", 1, 10, "work")
	if !clierr.HasCode(err, clierr.SlotOccupied) {
		t.Fatalf("expected SLOT_OCCUPIED, got %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 task, got %d", m.Len())
	}
	if rec.calls != 1 {
		t.Errorf("conflict must not notify, calls=%d", rec.calls)
	}
	after, _, _ := st.Load(DefaultKey)
	if string(before) != string(after) {
		t.Error("conflict must not write to the store")
	}
}

func TestCreateValidation(t *testing.T) {
	m, st, _ := newManager(t)

	cases := []struct {
		name     string
		day      int
		hour     int
		category string
		code     string
	}{
		{"", 1, 10, "work", clierr.InvalidName},
		{"x", 0, 10, "work", clierr.InvalidDay},
		{"x", 1, 20, "work", clierr.InvalidHour},
		{"x", 1, 10, "chores", clierr.InvalidCategory},
	}
	for _, c := range cases {
		if _, err := m.Create(c.name, c.day, c.hour, c.category); !clierr.HasCode(err, c.code) {
			t.Errorf("Create(%q,%d,%d,%q): expected %s, got %v", c.name, c.day, c.hour, c.category, c.code, err)
		}
	}
	if _, ok, _ := st.Load(DefaultKey); ok {
		t.Error("validation failures must not persist anything")
	}
}

func TestCreateTrimsName(t *testing.T) {
	m, _, _ := newManager(t)
	created := mustCreate(t, m, "  Review  ", 2, 11, "work")
	if created.Name != "Review" {
		t.Errorf("got name %q", created.Name)
	}
}

func TestMoveOntoOwnSlot(t *testing.T) {
	m, _, rec := newManager(t)
	t1 := mustCreate(t, m, "Team Meeting", 1, 10, "work")

	moved, changed, err := m.Move(t1.ID, 1, 10)
	if err != nil {
		t.Fatalf("self-move: %v", err)
	}
	if changed {
		t.Error("self-move should report no change")
	}
	if moved != t1 {
		t.Errorf("got %+v, want %+v", moved, t1)
	}
	if got := m.Tasks(); len(got) != 1 || got[0] != t1 {
		t.Errorf("collection changed: %+v", got)
	}
	if rec.calls != 2 {
		t.Errorf("expected notification after self-move, calls=%d", rec.calls)
	}
}

func TestMoveConflict(t *testing.T) {
	m, _, _ := newManager(t)
	a := mustCreate(t, m, "A", 2, 9, "work")
	mustCreate(t, m, "B", 3, 9, "work")

	_, _, err := m.Move(a.ID, 3, 9)
	if !clierr.HasCode(err, clierr.SlotOccupied) {
		t.Fatalf("expected SLOT_OCCUPIED, got %v", err)
	}
	got, err := m.Get(a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Day != 2 || got.Hour != 9 {
		t.Errorf("A moved to %v despite conflict", got.Slot())
	}
}

func TestMoveSuccess(t *testing.T) {
	m, st, _ := newManager(t)
	a := mustCreate(t, m, "A", 2, 9, "work")

	moved, changed, err := m.Move(a.ID, 6, 16)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !changed || moved.Day != 6 || moved.Hour != 16 || moved.ID != a.ID {
		t.Errorf("unexpected result %+v changed=%v", moved, changed)
	}
	if got := reload(t, st); got[0].Day != 6 || got[0].Hour != 16 {
		t.Errorf("move not persisted: %+v", got[0])
	}
}

func TestMoveNotFoundAndInvalid(t *testing.T) {
	m, _, _ := newManager(t)
	mustCreate(t, m, "A", 2, 9, "work")

	if _, _, err := m.Move("missing", 4, 9); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Errorf("expected TASK_NOT_FOUND, got %v", err)
	}
	if _, _, err := m.Move("missing", 9, 9); !clierr.HasCode(err, clierr.InvalidDay) {
		t.Errorf("expected INVALID_DAY, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	m, st, rec := newManager(t)
	a := mustCreate(t, m, "A", 1, 9, "work")
	mustCreate(t, m, "B", 1, 10, "work")

	if err := m.Delete(a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	once := m.Tasks()
	if err := m.Delete(a.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	twice := m.Tasks()

	if len(once) != 1 || len(twice) != 1 || once[0] != twice[0] {
		t.Errorf("delete not idempotent: %+v vs %+v", once, twice)
	}
	if rec.calls != 4 {
		t.Errorf("delete should always notify, calls=%d", rec.calls)
	}
	if got := reload(t, st); len(got) != 1 || got[0].Name != "B" {
		t.Errorf("persisted %+v", got)
	}
}

func TestEditConflictRollsBack(t *testing.T) {
	m, st, rec := newManager(t)
	a := mustCreate(t, m, "A", 2, 9, "work")
	b := mustCreate(t, m, "B", 3, 9, "work")
	before := m.Tasks()
	calls := rec.calls

	_, err := m.Edit(a.ID, "X", 3, 9, "other")
	if !clierr.HasCode(err, clierr.SlotOccupied) {
		t.Fatalf("expected SLOT_OCCUPIED, got %v", err)
	}

	after := m.Tasks()
	if len(after) != len(before) {
		t.Fatalf("collection size changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("task %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	if got, _ := m.Get(a.ID); got != a {
		t.Errorf("A not restored with its id: %+v", got)
	}
	if got, _ := m.Get(b.ID); got != b {
		t.Errorf("B changed: %+v", got)
	}
	if rec.calls != calls {
		t.Error("rolled back edit must not notify")
	}
	if got := reload(t, st); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("store changed after rollback: %+v", got)
	}
}

func TestEditKeepsIDAndPosition(t *testing.T) {
	m, _, _ := newManager(t)
	a := mustCreate(t, m, "A", 1, 9, "work")
	mustCreate(t, m, "B", 1, 10, "work")

	updated, err := m.Edit(a.ID, "Renamed", 4, 13, "personal")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	want := task.Task{ID: a.ID, Name: "Renamed", Day: 4, Hour: 13, Category: "personal"}
	if updated != want {
		t.Errorf("got %+v, want %+v", updated, want)
	}
	if got := m.Tasks(); got[0] != want {
		t.Errorf("edited task moved position: %+v", got)
	}
}

func TestEditOwnSlot(t *testing.T) {
	m, _, _ := newManager(t)
	a := mustCreate(t, m, "A", 1, 9, "work")

	if _, err := m.Edit(a.ID, "A2", 1, 9, "other"); err != nil {
		t.Fatalf("editing in place should not conflict with itself: %v", err)
	}
}

func TestEditErrors(t *testing.T) {
	m, _, _ := newManager(t)
	a := mustCreate(t, m, "A", 1, 9, "work")

	if _, err := m.Edit("missing", "X", 1, 10, "work"); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Errorf("expected TASK_NOT_FOUND, got %v", err)
	}
	if _, err := m.Edit(a.ID, " ", 1, 10, "work"); !clierr.HasCode(err, clierr.InvalidName) {
		t.Errorf("expected INVALID_NAME, got %v", err)
	}
	if got, _ := m.Get(a.ID); got != a {
		t.Errorf("failed edit changed task: %+v", got)
	}
}

func TestClearAll(t *testing.T) {
	m, st, rec := newManager(t)
	mustCreate(t, m, "A", 1, 9, "work")
	mustCreate(t, m, "B", 2, 9, "personal")

	if err := m.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty collection, got %d", m.Len())
	}
	if len(rec.snapshot) != 0 {
		t.Errorf("last notification should be empty, got %d", len(rec.snapshot))
	}
	if got := reload(t, st); len(got) != 0 {
		t.Errorf("expected empty persisted collection, got %+v", got)
	}
}

func TestSaveFailureLeavesStateUnchanged(t *testing.T) {
	m, st, rec := newManager(t)
	a := mustCreate(t, m, "A", 1, 9, "work")
	st.FailSave = errors.New("quota exceeded")
	calls := rec.calls

	if _, err := m.Create("B", 1, 10, "work"); err == nil {
		t.Error("Create: expected error")
	}
	if _, _, err := m.Move(a.ID, 2, 9); err == nil {
		t.Error("Move: expected error")
	}
	if _, err := m.Edit(a.ID, "Z", 3, 9, "other"); err == nil {
		t.Error("Edit: expected error")
	}
	if err := m.Delete(a.ID); err == nil {
		t.Error("Delete: expected error")
	}
	if err := m.ClearAll(); err == nil {
		t.Error("ClearAll: expected error")
	}

	if got := m.Tasks(); len(got) != 1 || got[0] != a {
		t.Errorf("collection mutated despite failed writes: %+v", got)
	}
	if rec.calls != calls {
		t.Error("failed writes must not notify")
	}
}

func TestLoadAcceptsStringFields(t *testing.T) {
	st := store.NewMemoryStore()
	data := `[{"id":"1","name":"Gym","day":"5","hour":"17","category":"personal"}]`
	if err := st.Save(DefaultKey, []byte(data)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := reload(t, st)
	if len(got) != 1 || got[0].Day != 5 || got[0].Hour != 17 {
		t.Errorf("got %+v", got)
	}
}

func TestLoadRejectsCorruptData(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{`,
		"shared slot":     `[{"id":"1","name":"a","day":1,"hour":9,"category":"work"},{"id":"2","name":"b","day":1,"hour":9,"category":"work"}]`,
		"bad category":    `[{"id":"1","name":"a","day":1,"hour":9,"category":"chores"}]`,
		"hour out of set": `[{"id":"1","name":"a","day":1,"hour":3,"category":"work"}]`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			st := store.NewMemoryStore()
			if err := st.Save(DefaultKey, []byte(data)); err != nil {
				t.Fatalf("Save: %v", err)
			}
			m := New(st, task.DefaultRules())
			if err := m.Load(); !clierr.HasCode(err, clierr.CorruptStore) {
				t.Fatalf("expected CORRUPT_STORE, got %v", err)
			}
			if m.Len() != 0 {
				t.Errorf("corrupt load installed %d tasks", m.Len())
			}
		})
	}
}

func TestLoadReassignsDuplicateIDs(t *testing.T) {
	st := store.NewMemoryStore()
	data := `[{"id":"1700000000000","name":"a","day":1,"hour":9,"category":"work"},` +
		`{"id":"1700000000000","name":"b","day":1,"hour":10,"category":"work"},` +
		`{"id":"1700000000000","name":"c","day":2,"hour":10,"category":"work"}]`
	if err := st.Save(DefaultKey, []byte(data)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m := New(st, task.DefaultRules(), WithIDGenerator(counter()))
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := m.Tasks()
	want := []string{"1700000000000", "id-1", "id-2"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("task %d (%s): id = %q, want %q", i, got[i].Name, got[i].ID, id)
		}
	}
	if _, err := m.Get("id-1"); err != nil {
		t.Errorf("Get reassigned id: %v", err)
	}

	// The next mutation persists the fresh ids.
	if _, err := m.Create("d", 3, 9, "work"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	saved := reload(t, st)
	if len(saved) != 4 || saved[1].ID != "id-1" || saved[2].ID != "id-2" {
		t.Errorf("saved ids not deduplicated: %+v", saved)
	}
}

func TestCustomKey(t *testing.T) {
	st := store.NewMemoryStore()
	m := New(st, task.DefaultRules(), WithKey("other"))
	if _, err := m.Create("A", 1, 9, "work"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok, _ := st.Load("other"); !ok {
		t.Error("expected data under custom key")
	}
	if _, ok, _ := st.Load(DefaultKey); ok {
		t.Error("default key should be untouched")
	}
}

func TestSeed(t *testing.T) {
	m, _, _ := newManager(t)
	n, err := m.Seed(DemoTasks)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != len(DemoTasks) || m.Len() != len(DemoTasks) {
		t.Fatalf("seeded %d, have %d, want %d", n, m.Len(), len(DemoTasks))
	}

	n, err = m.Seed(DemoTasks)
	if err != nil || n != 0 {
		t.Errorf("seeding a non-empty board: n=%d err=%v", n, err)
	}
}

func TestSeedSkipsInvalidSamples(t *testing.T) {
	m, _, _ := newManager(t)
	n, err := m.Seed([]Sample{
		{"ok", 1, 9, "work"},
		{"clash", 1, 9, "work"},
		{"late", 1, 23, "work"},
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 1 {
		t.Errorf("created %d, want 1", n)
	}
}

func TestAt(t *testing.T) {
	m, _, _ := newManager(t)
	a := mustCreate(t, m, "A", 7, 17, "other")
	if got, ok := m.At(7, 17); !ok || got != a {
		t.Errorf("At(7,17) = %+v, %v", got, ok)
	}
	if _, ok := m.At(7, 16); ok {
		t.Error("At(7,16) should be empty")
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	m, _, _ := newManager(t)
	mustCreate(t, m, "A", 1, 9, "work")
	snap := m.Tasks()
	snap[0].Name = "mutated"
	if got := m.Tasks(); got[0].Name != "A" {
		t.Error("snapshot aliases the collection")
	}
}

func TestRandomOperationsKeepSlotsExclusive(t *testing.T) {
	m, st, _ := newManager(t)
	rules := m.Rules()
	rng := rand.New(rand.NewPCG(1, 2))

	randomSlot := func() (int, int) {
		return rng.IntN(len(rules.DayNames)) + 1, rules.Hours[rng.IntN(len(rules.Hours))]
	}
	randomID := func() string {
		tasks := m.Tasks()
		if len(tasks) == 0 || rng.IntN(10) == 0 {
			return "missing"
		}
		return tasks[rng.IntN(len(tasks))].ID
	}

	for i := range 2000 {
		day, hour := randomSlot()
		switch rng.IntN(4) {
		case 0, 1:
			_, _ = m.Create("t"+strconv.Itoa(i), day, hour, rules.Categories[rng.IntN(len(rules.Categories))])
		case 2:
			_, _, _ = m.Move(randomID(), day, hour)
		case 3:
			_, _ = m.Edit(randomID(), "e"+strconv.Itoa(i), day, hour, "other")
		}
		assertNoSharedSlots(t, m.Tasks())
	}

	persisted := reload(t, st)
	if len(persisted) != m.Len() {
		t.Fatalf("persisted %d tasks, memory has %d", len(persisted), m.Len())
	}
	current := m.Tasks()
	for i := range persisted {
		if persisted[i] != current[i] {
			t.Errorf("task %d differs: persisted %+v memory %+v", i, persisted[i], current[i])
		}
	}
}

func TestDefaultIDsAreUnique(t *testing.T) {
	m := New(store.NewMemoryStore(), task.DefaultRules())
	a, err := m.Create("A", 1, 9, "work")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := m.Create("B", 1, 10, "work")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == b.ID || a.ID == "" {
		t.Errorf("ids not unique: %q %q", a.ID, b.ID)
	}
}

func TestResolve(t *testing.T) {
	st := store.NewMemoryStore()
	ids := []string{"abcd1111", "abcd2222", "ef001234"}
	n := 0
	m := New(st, task.DefaultRules(), WithIDGenerator(func() string {
		id := ids[n]
		n++
		return id
	}))
	mustCreate(t, m, "A", 1, 9, "work")
	mustCreate(t, m, "B", 1, 10, "work")
	mustCreate(t, m, "C", 1, 11, "work")

	cases := []struct {
		ref  string
		want string
		code string
	}{
		{"abcd1111", "abcd1111", ""},
		{"ef00", "ef001234", ""},
		{"abcd2", "abcd2222", ""},
		{"abcd", "", clierr.InvalidTaskID},
		{"ef0", "", clierr.TaskNotFound},
		{"zzzz", "", clierr.TaskNotFound},
		{" ", "", clierr.InvalidTaskID},
	}
	for _, c := range cases {
		got, err := m.Resolve(c.ref)
		if c.code != "" {
			if !clierr.HasCode(err, c.code) {
				t.Errorf("Resolve(%q): expected %s, got %v", c.ref, c.code, err)
			}
			continue
		}
		if err != nil || got.ID != c.want {
			t.Errorf("Resolve(%q) = %q, %v", c.ref, got.ID, err)
		}
	}
}
