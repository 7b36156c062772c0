package form

// Rows is an ordered list that never shrinks below Min entries.
type Rows[T any] struct {
	items []T
	min   int
	blank func() T
}

// NewRows pads initial with blank rows up to min. min below one is raised
// to one.
func NewRows[T any](min int, blank func() T, initial ...T) Rows[T] {
	if min < 1 {
		min = 1
	}
	items := append([]T(nil), initial...)
	for len(items) < min {
		items = append(items, blank())
	}
	return Rows[T]{items: items, min: min, blank: blank}
}

func (r Rows[T]) Len() int { return len(r.items) }
func (r Rows[T]) Min() int { return r.min }
func (r Rows[T]) At(i int) T {
	return r.items[i]
}

// Items returns a copy of the rows.
func (r Rows[T]) Items() []T {
	return append([]T(nil), r.items...)
}

// Add appends a blank row.
func (r *Rows[T]) Add() {
	r.items = append(r.items, r.blank())
}

// Update replaces row i. Out-of-range indexes are ignored.
func (r *Rows[T]) Update(i int, v T) bool {
	if i < 0 || i >= len(r.items) {
		return false
	}
	r.items[i] = v
	return true
}

// Remove deletes row i unless that would leave fewer than Min rows.
func (r *Rows[T]) Remove(i int) bool {
	if len(r.items) <= r.min || i < 0 || i >= len(r.items) {
		return false
	}
	r.items = append(r.items[:i:i], r.items[i+1:]...)
	return true
}
