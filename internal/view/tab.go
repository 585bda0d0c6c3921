package view

// Named is anything with a name the filter can match against.
type Named interface {
	BranchName() string
}

// Ranker matches a query against candidate names. It returns the indices of
// the matching candidates, best match first.
type Ranker interface {
	Rank(query string, names []string) []int
}

// Tab owns the full list of a branch kind and, while a query is typed, a
// filtered list rebuilt from it. Every accessor reads through Active, so the
// filter is invisible to callers.
type Tab[T Named] struct {
	query    []rune
	full     *List[T]
	filtered *List[T] // nil iff query is empty
	ranker   Ranker
	capacity int
}

// NewTab returns an empty tab that filters with ranker.
func NewTab[T Named](ranker Ranker) *Tab[T] {
	return &Tab[T]{
		full:   NewList[T](nil),
		ranker: ranker,
	}
}

// Query returns the current filter text.
func (t *Tab[T]) Query() string {
	return string(t.query)
}

// Filtering reports whether a filtered list is active.
func (t *Tab[T]) Filtering() bool {
	return t.filtered != nil
}

// Full returns the unfiltered list.
func (t *Tab[T]) Full() *List[T] {
	return t.full
}

// Active returns the filtered list when a query is set, the full list otherwise.
func (t *Tab[T]) Active() *List[T] {
	if t.filtered != nil {
		return t.filtered
	}
	return t.full
}

// Capacity returns the viewport capacity last given to Resize.
func (t *Tab[T]) Capacity() int {
	return t.capacity
}

// Len returns the number of records in the active list.
func (t *Tab[T]) Len() int {
	return t.Active().Len()
}

// Selection returns the selected record of the active list.
func (t *Tab[T]) Selection() (T, bool) {
	return t.Active().Selection()
}

// Refresh replaces the full record set, selects the first record matching
// preserve (or the first record), and re-runs the filter if one is active.
func (t *Tab[T]) Refresh(records []T, preserve func(T) bool) {
	t.full.Records = records
	t.full.SelectBy(preserve)
	if len(t.query) > 0 {
		t.Recompute()
		return
	}
	t.reconcile()
}

// TypeRune appends r to the query and refilters.
func (t *Tab[T]) TypeRune(r rune) {
	t.query = append(t.query, r)
	t.Recompute()
}

// EraseRune removes the last rune of the query. Erasing the last rune drops
// the filtered list entirely.
func (t *Tab[T]) EraseRune() {
	if len(t.query) == 0 {
		return
	}
	t.query = t.query[:len(t.query)-1]
	if len(t.query) == 0 {
		t.filtered = nil
		t.reconcile()
		return
	}
	t.Recompute()
}

// ClearQuery drops the query and the filtered list.
func (t *Tab[T]) ClearQuery() {
	t.query = t.query[:0]
	t.filtered = nil
	t.reconcile()
}

// Recompute rebuilds the filtered list from the full records in ranker
// order. A selection that is still in range survives; otherwise it resets
// to the top.
func (t *Tab[T]) Recompute() {
	names := make([]string, len(t.full.Records))
	for i, r := range t.full.Records {
		names[i] = r.BranchName()
	}

	var matched []T
	for _, idx := range t.ranker.Rank(string(t.query), names) {
		if idx < 0 || idx >= len(t.full.Records) {
			continue
		}
		matched = append(matched, t.full.Records[idx])
	}

	if t.filtered == nil {
		t.filtered = NewList(matched)
	} else {
		t.filtered.Records = matched
		if t.filtered.Selected >= len(matched) {
			t.filtered.Selected = 0
		}
	}
	t.reconcile()
}

// Move shifts the selection of the active list.
func (t *Tab[T]) Move(delta int) {
	t.Active().Move(delta)
	t.reconcile()
}

// Resize records a new viewport capacity and scrolls the active list to keep
// the selection visible. The selection itself never changes.
func (t *Tab[T]) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	t.capacity = capacity
	t.reconcile()
}

func (t *Tab[T]) reconcile() {
	t.Active().Reconcile(t.capacity)
}
