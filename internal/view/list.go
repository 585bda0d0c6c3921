// Package view holds the list state behind each branch tab: an ordered,
// scrollable list with a single selection, and a tab that layers a fuzzy
// filter over it.
package view

// List is an ordered sequence of records with a selection and a scroll
// offset. Selected is always a valid index when Records is non-empty and 0
// otherwise.
type List[T any] struct {
	Records  []T
	Selected int
	Offset   int
}

// NewList returns a list over records with the first record selected.
func NewList[T any](records []T) *List[T] {
	return &List[T]{Records: records}
}

// Len returns the number of records.
func (l *List[T]) Len() int {
	return len(l.Records)
}

// SelectBy selects the first record matching pred, or the first record when
// nothing matches or pred is nil.
func (l *List[T]) SelectBy(pred func(T) bool) {
	l.Selected = 0
	if pred == nil {
		return
	}
	for i, r := range l.Records {
		if pred(r) {
			l.Selected = i
			return
		}
	}
}

// Move shifts the selection by delta, saturating at both ends.
func (l *List[T]) Move(delta int) {
	if delta == 0 || len(l.Records) == 0 {
		return
	}
	next := l.Selected + delta
	// Overflow for huge deltas still lands on the right side.
	if delta > 0 && next < l.Selected {
		next = len(l.Records) - 1
	}
	if delta < 0 && next > l.Selected {
		next = 0
	}
	l.Selected = clamp(next, 0, len(l.Records)-1)
}

// Reconcile scrolls just enough to keep the selection inside a window of
// capacity+1 rows starting at Offset. It is the only method that changes
// Offset and is idempotent.
func (l *List[T]) Reconcile(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	switch {
	case l.Selected < l.Offset:
		l.Offset = l.Selected
	case l.Selected > l.Offset+capacity:
		l.Offset = l.Selected - capacity
	}
}

// Selection returns the selected record, or false when the list is empty.
func (l *List[T]) Selection() (T, bool) {
	if len(l.Records) == 0 {
		var zero T
		return zero, false
	}
	return l.Records[l.Selected], true
}

// Window returns the bounds of the rows to draw for the given capacity.
func (l *List[T]) Window(capacity int) (start, end int) {
	if capacity < 0 {
		capacity = 0
	}
	start = clamp(l.Offset, 0, len(l.Records))
	end = start + capacity + 1
	if end > len(l.Records) {
		end = len(l.Records)
	}
	return start, end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
