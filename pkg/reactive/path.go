package reactive

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	terrors "github.com/vango-dev/trellis/internal/errors"
)

// Getter is a keyed value source a path expression can walk.
// *Object implements it; component instances do too.
type Getter interface {
	Get(key string) any
}

// ParsePath compiles a dot-delimited path ("a.b.0.c") into a function that
// walks it from a root. It returns nil for paths containing characters other
// than letters, digits, '_', '$' and '.'.
func ParsePath(path string) func(root any) any {
	for _, r := range path {
		if r != '.' && r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return nil
		}
	}
	segments := strings.Split(path, ".")
	return func(root any) any {
		cur := root
		for _, seg := range segments {
			switch c := cur.(type) {
			case Getter:
				cur = c.Get(seg)
			case *Array:
				i, err := strconv.Atoi(seg)
				if err != nil {
					return nil
				}
				cur = c.At(i)
			default:
				return nil
			}
			if cur == nil {
				return nil
			}
		}
		return cur
	}
}

// WatchPath watches the value at path under root. An invalid path is
// reported and yields a watcher that depends on nothing.
func (rt *Runtime) WatchPath(owner Owner, root Getter, path string, cb func(value, old any), opts WatcherOptions) *Watcher {
	if opts.Expression == "" {
		opts.Expression = path
	}
	walk := ParsePath(path)
	if walk == nil {
		rt.Warn(terrors.New("E104").WithInfo(fmt.Sprintf("path %q", path)))
		return rt.NewWatcher(owner, nil, cb, opts)
	}
	return rt.NewWatcher(owner, func() any { return walk(root) }, cb, opts)
}
