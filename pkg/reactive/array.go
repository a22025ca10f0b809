package reactive

import (
	"slices"
	"sort"
)

// Array is a sequence container. Only the mutator methods change it; an
// observed Array notifies its container Dep after each mutation. Element
// reads are not tracked individually: the field holding the Array tracks it.
type Array struct {
	ob     *Observer
	items  []any
	frozen bool
}

// NewArray creates a plain Array. Nested map[string]any and []any values are
// converted to *Object and *Array.
func NewArray(items ...any) *Array {
	return newArrayFrom(items, make(map[uintptr]any))
}

// Observer returns the attached observer, or nil for a plain Array.
func (a *Array) Observer() *Observer {
	return a.ob
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.items)
}

// At returns the element at i, or nil when out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Values returns a copy of the elements.
func (a *Array) Values() []any {
	return slices.Clone(a.items)
}

// Freeze makes the Array immutable and excludes it from observation.
func (a *Array) Freeze() *Array {
	a.frozen = true
	return a
}

// IsFrozen reports whether the Array is frozen.
func (a *Array) IsFrozen() bool {
	return a.frozen
}

// Push appends values and returns the new length.
func (a *Array) Push(values ...any) int {
	if a.frozen {
		return len(a.items)
	}
	values = convertAll(values)
	a.items = append(a.items, values...)
	a.mutated(values)
	return len(a.items)
}

// Pop removes and returns the last element.
func (a *Array) Pop() any {
	if a.frozen || len(a.items) == 0 {
		return nil
	}
	last := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]
	a.mutated(nil)
	return last
}

// Shift removes and returns the first element.
func (a *Array) Shift() any {
	if a.frozen || len(a.items) == 0 {
		return nil
	}
	first := a.items[0]
	a.items = slices.Delete(a.items, 0, 1)
	a.mutated(nil)
	return first
}

// Unshift prepends values and returns the new length.
func (a *Array) Unshift(values ...any) int {
	if a.frozen {
		return len(a.items)
	}
	values = convertAll(values)
	a.items = slices.Insert(a.items, 0, values...)
	a.mutated(values)
	return len(a.items)
}

// Splice removes deleteCount elements at start, inserts values there and
// returns the removed elements. A negative start counts from the end.
func (a *Array) Splice(start, deleteCount int, values ...any) []any {
	if a.frozen {
		return nil
	}
	n := len(a.items)
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = max(min(deleteCount, n-start), 0)

	removed := slices.Clone(a.items[start : start+deleteCount])
	values = convertAll(values)
	a.items = slices.Replace(a.items, start, start+deleteCount, values...)
	a.mutated(values)
	return removed
}

// Sort sorts the elements in place using less.
func (a *Array) Sort(less func(x, y any) bool) {
	if a.frozen {
		return
	}
	sort.SliceStable(a.items, func(i, j int) bool { return less(a.items[i], a.items[j]) })
	a.mutated(nil)
}

// Reverse reverses the elements in place.
func (a *Array) Reverse() {
	if a.frozen {
		return
	}
	slices.Reverse(a.items)
	a.mutated(nil)
}

func (a *Array) mutated(inserted []any) {
	ob := a.ob
	if ob == nil {
		return
	}
	if len(inserted) > 0 {
		ob.observeArray(inserted)
	}
	ob.dep.Notify()
}

func convertAll(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = toContainer(v)
	}
	return out
}
