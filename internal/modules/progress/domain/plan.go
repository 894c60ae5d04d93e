package domain

import (
	"strconv"

	"readplan/internal/platform/notes"
)

// PlanItem is one reading unit. Its index is its position in the plan and
// is never stored on the item.
type PlanItem struct {
	Ref  string
	Path string
}

func (p PlanItem) Location(notesRoot string) notes.Location {
	return notes.Locate(notesRoot, p.Path, p.Ref)
}

// RefAt returns the item's ref, or an idx token when the plan has no such
// item.
func RefAt(plan []PlanItem, index int) string {
	if index >= 0 && index < len(plan) {
		return plan[index].Ref
	}
	return "idx:" + strconv.Itoa(index)
}
