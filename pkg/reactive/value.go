package reactive

import (
	"math"
	"reflect"
	"sort"
)

// toContainer converts plain Go maps and slices into containers so they can
// be observed. Other values are returned unchanged.
func toContainer(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return newObjectFrom(x, make(map[uintptr]any))
	case []any:
		return newArrayFrom(x, make(map[uintptr]any))
	default:
		return v
	}
}

func newObjectFrom(m map[string]any, seen map[uintptr]any) *Object {
	o := &Object{entries: make(map[string]*entry, len(m))}
	if m == nil {
		return o
	}
	seen[reflect.ValueOf(m).Pointer()] = o

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.put(k, convertNested(m[k], seen))
	}
	return o
}

func newArrayFrom(items []any, seen map[uintptr]any) *Array {
	a := &Array{items: make([]any, len(items))}
	if len(items) > 0 {
		seen[reflect.ValueOf(items).Pointer()] = a
	}
	for i, v := range items {
		a.items[i] = convertNested(v, seen)
	}
	return a
}

func convertNested(v any, seen map[uintptr]any) any {
	switch x := v.(type) {
	case map[string]any:
		if x != nil {
			if c, ok := seen[reflect.ValueOf(x).Pointer()]; ok {
				return c
			}
		}
		return newObjectFrom(x, seen)
	case []any:
		if len(x) > 0 {
			if c, ok := seen[reflect.ValueOf(x).Pointer()]; ok {
				return c
			}
		}
		return newArrayFrom(x, seen)
	default:
		return v
	}
}

// sameValue reports whether a write of b over a is a no-op: identical
// comparable values, identical references, or NaN over NaN.
func sameValue(a, b any) (same bool) {
	if isNaN(a) && isNaN(b) {
		return true
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Func:
		return false
	}
	if !ta.Comparable() {
		return false
	}
	// Structs holding interfaces can still panic on ==.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// isObject reports whether v has reference or aggregate identity, in which
// case a watcher fires its callback even when the value is unchanged.
func isObject(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case *Object, *Array:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}
