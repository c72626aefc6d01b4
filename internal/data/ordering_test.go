package data

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func entriesWithOrders(orders ...int) []*ListEntry {
	entries := make([]*ListEntry, len(orders))
	for i, o := range orders {
		entries[i] = &ListEntry{ID: int64(i + 1), Order: o}
	}
	return entries
}

func ids(entries []*ListEntry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func ordersOf(entries []*ListEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Order
	}
	return out
}

func TestNextOrder(t *testing.T) {
	assert.Equal(t, 1, nextOrder(nil))
	assert.Equal(t, 4, nextOrder(entriesWithOrders(1, 2, 3)))
	assert.Equal(t, 8, nextOrder(entriesWithOrders(7, 2)))
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name        string
		orders      []int
		wantOrders  []int
		wantChanged []int64
	}{
		{"empty", nil, []int{}, nil},
		{"already dense", []int{1, 2, 3}, []int{1, 2, 3}, nil},
		{"gap after delete", []int{1, 3, 4}, []int{1, 2, 3}, []int64{2, 3}},
		{"gap at start", []int{2, 3}, []int{1, 2}, []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := entriesWithOrders(tt.orders...)
			changed := compact(entries)

			if diff := cmp.Diff(tt.wantOrders, ordersOf(entries)); diff != "" {
				t.Errorf("orders mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantChanged, ids(changed), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("changed mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyClientOrder(t *testing.T) {
	tests := []struct {
		name        string
		submitted   []int64
		wantOrder   []int64
		wantChanged []int64
	}{
		{"permutation", []int64{3, 1, 2}, []int64{3, 1, 2}, []int64{3, 1, 2}},
		{"unchanged", []int64{1, 2, 3}, []int64{1, 2, 3}, nil},
		{"swap last two", []int64{1, 3, 2}, []int64{1, 3, 2}, []int64{3, 2}},
		{"foreign ids skipped", []int64{99, 2, 1, 3}, []int64{2, 1, 3}, []int64{2, 1}},
		{"duplicates skipped", []int64{2, 2, 1, 3}, []int64{2, 1, 3}, []int64{2, 1}},
		{"partial submission", []int64{2, 1}, []int64{2, 1, 3}, []int64{2, 1}},
		{"empty submission", nil, []int64{1, 2, 3}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := entriesWithOrders(1, 2, 3)

			ordered, changed := applyClientOrder(entries, tt.submitted)

			if diff := cmp.Diff(tt.wantOrder, ids(ordered)); diff != "" {
				t.Errorf("sequence mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, []int{1, 2, 3}, ordersOf(ordered))
			if diff := cmp.Diff(tt.wantChanged, ids(changed), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("changed mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyClientOrderEmptyList(t *testing.T) {
	ordered, changed := applyClientOrder(nil, []int64{1, 2})

	assert.Empty(t, ordered)
	assert.Empty(t, changed)
}
