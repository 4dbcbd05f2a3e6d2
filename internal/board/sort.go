package board

import (
	"cmp"
	"slices"

	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
)

// Sort fields.
const (
	SortSlot     = "slot"
	SortName     = "name"
	SortCategory = "category"
	SortCreated  = "created"
)

// SortFields lists the accepted sort fields.
var SortFields = []string{SortSlot, SortName, SortCategory, SortCreated}

// Sort orders tasks by the given field. Categories sort in the board's
// configured order; ties fall back to slot order. "created" keeps the
// collection's insertion order.
func Sort(tasks []task.Task, field string, reverse bool, rules task.Rules) {
	if field == SortCreated {
		if reverse {
			slices.Reverse(tasks)
		}
		return
	}
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		c := compareTasks(a, b, field, rules)
		if reverse {
			return -c
		}
		return c
	})
}

func compareTasks(a, b task.Task, field string, rules task.Rules) int {
	switch field {
	case SortName:
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
	case SortCategory:
		ai := slices.Index(rules.Categories, a.Category)
		bi := slices.Index(rules.Categories, b.Category)
		if c := cmp.Compare(ai, bi); c != 0 {
			return c
		}
	}
	return compareSlot(a, b)
}

func compareSlot(a, b task.Task) int {
	if c := cmp.Compare(a.Day, b.Day); c != 0 {
		return c
	}
	return cmp.Compare(a.Hour, b.Hour)
}
