package minutia

import (
	"fmt"
	"sort"
)

// List is an ordered, growable collection of minutiae.
type List struct {
	items  []*Minutia
	growBy int
}

// NewList creates an empty list with room for capacity entries that grows
// by growBy entries whenever it fills up.
func NewList(capacity, growBy int) *List {
	if capacity < 0 {
		capacity = 0
	}
	if growBy <= 0 {
		growBy = 1
	}
	return &List{items: make([]*Minutia, 0, capacity), growBy: growBy}
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.items) }

// Cap returns the current allocated capacity.
func (l *List) Cap() int { return cap(l.items) }

// At returns entry i.
func (l *List) At(i int) *Minutia { return l.items[i] }

// Items returns the entries in order. The slice is shared with the list.
func (l *List) Items() []*Minutia { return l.items }

// Append adds m at the end, growing capacity by the configured increment
// when full.
func (l *List) Append(m *Minutia) {
	if len(l.items) == cap(l.items) {
		grown := make([]*Minutia, len(l.items), cap(l.items)+l.growBy)
		copy(grown, l.items)
		l.items = grown
	}
	l.items = append(l.items, m)
}

// Remove deletes entry i, keeping the order of the rest.
func (l *List) Remove(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("minutia: remove %d of %d: %w", i, len(l.items), ErrIndexOutOfRange)
	}
	copy(l.items[i:], l.items[i+1:])
	l.items[len(l.items)-1] = nil
	l.items = l.items[:len(l.items)-1]
	return nil
}

// RemoveMarked deletes every entry whose flag is set, walking from the end
// so earlier indices stay valid. It returns the number removed.
func (l *List) RemoveMarked(marks []bool) (int, error) {
	if len(marks) != len(l.items) {
		return 0, fmt.Errorf("minutia: %d marks for %d entries: %w", len(marks), len(l.items), ErrIndexOutOfRange)
	}
	removed := 0
	for i := len(marks) - 1; i >= 0; i-- {
		if !marks[i] {
			continue
		}
		if err := l.Remove(i); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// SortYX orders entries top to bottom, then left to right. Entries at the
// same location keep their relative order.
func (l *List) SortYX() {
	sort.SliceStable(l.items, func(i, j int) bool {
		a, b := l.items[i], l.items[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}
