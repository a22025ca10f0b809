package reactive

import mapset "github.com/deckarep/golang-set/v2"

// traverse reads every nested field of val so that a deep watcher depends
// on all of them. Each container is visited once, so cyclic graphs
// terminate.
func (rt *Runtime) traverse(val any) {
	seen := mapset.NewThreadUnsafeSet[any]()
	traverseValue(val, seen)
}

func traverseValue(val any, seen mapset.Set[any]) {
	switch c := val.(type) {
	case *Object:
		if c == nil || c.frozen || !seen.Add(c) {
			return
		}
		for _, k := range c.keys {
			traverseValue(c.Get(k), seen)
		}
	case *Array:
		if c == nil || c.frozen || !seen.Add(c) {
			return
		}
		for _, v := range c.items {
			traverseValue(v, seen)
		}
	}
}
