package reactive

import (
	"fmt"
	"strconv"

	terrors "github.com/vango-dev/trellis/internal/errors"
)

// Instance is implemented by component instances. Keys can't be added to or
// removed from an instance at runtime.
type Instance interface {
	IsInstance() bool
}

// Set assigns key on target, adding a tracked field when target is an
// observed Object that lacks key. It returns val.
//
// For an *Array, key must be an int (or a numeric string); the array grows
// as needed and the element is replaced through Splice so that subscribers
// are notified.
func (rt *Runtime) Set(target any, key any, val any) (any, error) {
	switch t := target.(type) {
	case Instance:
		rt.Warn(terrors.New("E102").WithInfo(fmt.Sprintf("set %v", key)))
		return val, ErrRootData
	case *Array:
		if t == nil {
			break
		}
		idx, ok := toIndex(key)
		if !ok {
			break
		}
		if t.frozen {
			return val, rt.frozen("set", key, t)
		}
		for len(t.items) < idx {
			t.items = append(t.items, nil)
		}
		t.Splice(idx, 1, val)
		return val, nil
	case *Object:
		if t == nil {
			break
		}
		k, ok := key.(string)
		if !ok {
			break
		}
		if t.frozen {
			return val, rt.frozen("set", k, t)
		}
		if t.Has(k) {
			t.Set(k, val)
			return val, nil
		}
		ob := t.ob
		if ob != nil && ob.vmCount > 0 {
			rt.Warn(terrors.New("E102").WithInfo(fmt.Sprintf("set %q", k)))
			return val, ErrRootData
		}
		if ob == nil {
			t.Set(k, val)
			return val, nil
		}
		rt.defineReactive(t, k, val, false, nil)
		ob.dep.Notify()
		return val, nil
	}
	rt.Warn(terrors.New("E101").WithInfo(fmt.Sprintf("set %v on %T", key, target)))
	return val, ErrInvalidTarget
}

// Delete removes key from target and notifies when the key was present and
// target is observed.
func (rt *Runtime) Delete(target any, key any) error {
	switch t := target.(type) {
	case Instance:
		rt.Warn(terrors.New("E102").WithInfo(fmt.Sprintf("delete %v", key)))
		return ErrRootData
	case *Array:
		if t == nil {
			break
		}
		idx, ok := toIndex(key)
		if !ok {
			break
		}
		if t.frozen {
			return rt.frozen("delete", key, t)
		}
		if idx < len(t.items) {
			t.Splice(idx, 1)
		}
		return nil
	case *Object:
		if t == nil {
			break
		}
		k, ok := key.(string)
		if !ok {
			break
		}
		if t.frozen {
			return rt.frozen("delete", k, t)
		}
		ob := t.ob
		if ob != nil && ob.vmCount > 0 {
			rt.Warn(terrors.New("E102").WithInfo(fmt.Sprintf("delete %q", k)))
			return ErrRootData
		}
		if !t.Has(k) {
			return nil
		}
		t.Delete(k)
		if ob != nil {
			ob.dep.Notify()
		}
		return nil
	}
	rt.Warn(terrors.New("E101").WithInfo(fmt.Sprintf("delete %v on %T", key, target)))
	return ErrInvalidTarget
}

// frozen reports a write to a frozen container. The container is left as is.
func (rt *Runtime) frozen(op string, key, target any) error {
	rt.Warn(terrors.New("E101").WithInfo(fmt.Sprintf("%s %v on frozen %T", op, key, target)))
	return ErrInvalidTarget
}

func toIndex(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, k >= 0
	case string:
		n, err := strconv.Atoi(k)
		return n, err == nil && n >= 0
	}
	return 0, false
}
