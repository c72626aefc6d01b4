package data

import (
	"strings"

	"gorm.io/gorm"
)

// nextOrder returns the order value for an entry appended at the end of entries.
func nextOrder(entries []*ListEntry) int {
	highest := 0
	for _, e := range entries {
		if e.Order > highest {
			highest = e.Order
		}
	}
	return highest + 1
}

// compact renumbers entries (already sorted by order) to 1..N and returns
// only the entries whose order value changed.
func compact(entries []*ListEntry) []*ListEntry {
	var changed []*ListEntry
	for i, e := range entries {
		if e.Order != i+1 {
			e.Order = i + 1
			changed = append(changed, e)
		}
	}
	return changed
}

// applyClientOrder arranges entries in the sequence given by ids. Ids that do
// not belong to entries, and repeats, are skipped. Entries missing from ids
// keep their relative order and follow the submitted ones, so the result is
// always densely ordered.
func applyClientOrder(entries []*ListEntry, ids []int64) (ordered, changed []*ListEntry) {
	byID := make(map[int64]*ListEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	seen := make(map[int64]bool, len(ids))
	ordered = make([]*ListEntry, 0, len(entries))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ordered = append(ordered, e)
	}

	for _, e := range entries {
		if !seen[e.ID] {
			ordered = append(ordered, e)
		}
	}

	return ordered, compact(ordered)
}

// updateOrders writes the order of every entry in a single statement:
//
//	UPDATE user_films SET sort_order = CASE id WHEN ? THEN ? ... END WHERE id IN (...)
func updateOrders(tx *gorm.DB, entries []*ListEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]interface{}, 0, 2*len(entries))
	ids := make([]int64, 0, len(entries))

	sb.WriteString("CASE id")
	for _, e := range entries {
		sb.WriteString(" WHEN ? THEN CAST(? AS INTEGER)")
		args = append(args, e.ID, e.Order)
		ids = append(ids, e.ID)
	}
	sb.WriteString(" END")

	return tx.Model(&ListEntry{}).
		Where("id IN ?", ids).
		Update("sort_order", gorm.Expr(sb.String(), args...)).
		Error
}
