package reactive

import "slices"

// Object is an insertion-ordered key/value container. A plain Object behaves
// like a map; once observed, every key present at observation time (and every
// key added through Runtime.Set) becomes a tracked field.
type Object struct {
	ob      *Observer
	keys    []string
	entries map[string]*entry
	frozen  bool
}

type entry struct {
	val any
	acc *accessor
}

// NewObject creates a plain Object from m. Nested map[string]any and []any
// values are converted to *Object and *Array. Keys are sorted so that the
// resulting order is deterministic.
func NewObject(m map[string]any) *Object {
	return newObjectFrom(m, make(map[uintptr]any))
}

// ObjectOf creates a plain Object from alternating key/value pairs,
// preserving their order.
func ObjectOf(kv ...any) *Object {
	o := &Object{entries: make(map[string]*entry, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		k, _ := kv[i].(string)
		o.put(k, toContainer(kv[i+1]))
	}
	return o
}

// Observer returns the attached observer, or nil for a plain Object.
func (o *Object) Observer() *Observer {
	return o.ob
}

// Get returns the value for key. Reading an observed field registers the
// active watcher as a dependency.
func (o *Object) Get(key string) any {
	e, ok := o.entries[key]
	if !ok {
		return nil
	}
	if e.acc != nil {
		return e.acc.get()
	}
	return e.val
}

// Lookup is Get with a presence flag.
func (o *Object) Lookup(key string) (any, bool) {
	if _, ok := o.entries[key]; !ok {
		return nil, false
	}
	return o.Get(key), true
}

// Set assigns key. Tracked fields notify their subscribers; a key that is
// not yet present is added as a plain, untracked key. Use Runtime.Set to add
// a tracked key to an observed Object. Writes to a frozen Object are ignored.
func (o *Object) Set(key string, val any) {
	if o.frozen {
		return
	}
	e, ok := o.entries[key]
	if !ok {
		o.put(key, toContainer(val))
		return
	}
	if e.acc != nil {
		e.acc.set(val)
		return
	}
	e.val = toContainer(val)
}

// Delete removes key without notifying. Use Runtime.Delete to notify.
func (o *Object) Delete(key string) {
	if o.frozen {
		return
	}
	if _, ok := o.entries[key]; !ok {
		return
	}
	delete(o.entries, key)
	if i := slices.Index(o.keys, key); i >= 0 {
		o.keys = slices.Delete(o.keys, i, i+1)
	}
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.entries[key]
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Freeze makes the Object immutable and excludes it from observation.
func (o *Object) Freeze() *Object {
	o.frozen = true
	return o
}

// IsFrozen reports whether the Object is frozen.
func (o *Object) IsFrozen() bool {
	return o.frozen
}

// Raw returns a shallow snapshot as a map without tracking.
func (o *Object) Raw() map[string]any {
	m := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		m[k] = o.rawGet(k)
	}
	return m
}

func (o *Object) rawGet(key string) any {
	e, ok := o.entries[key]
	if !ok {
		return nil
	}
	if e.acc != nil {
		return e.acc.val
	}
	return e.val
}

func (o *Object) put(key string, val any) {
	if o.entries == nil {
		o.entries = make(map[string]*entry)
	}
	if _, ok := o.entries[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = &entry{val: val}
}
