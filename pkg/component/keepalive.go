package component

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/vango-dev/trellis/pkg/vdom"
)

// KeepAlive is an abstract component that keeps the instance of its first
// component child alive when that child is swapped out, and reuses it when
// the child is rendered again. Cached instances are deactivated instead of
// destroyed.
//
// Props:
//   - "include": only components whose name matches are cached
//   - "exclude": components whose name matches are never cached
//   - "max": cache size; the least recently used entry is destroyed first
//
// Patterns are a comma separated string, a []string or a *regexp.Regexp.
var KeepAlive = &Options{
	Name:     "keep-alive",
	Abstract: true,
	Props: map[string]Prop{
		"include": {},
		"exclude": {},
		"max":     {},
	},
	Render: renderKeepAlive,
	Hooks: map[Hook][]func(*Instance){
		Created:   {createKeepAlive},
		Mounted:   {watchKeepAlivePatterns},
		Destroyed: {destroyKeepAlive},
	},
}

type keepAliveCache struct {
	entries map[string]*vdom.VNode
	keys    []string // least recently used first
}

func cacheOf(i *Instance) *keepAliveCache {
	c, _ := i.ext.(*keepAliveCache)
	return c
}

func createKeepAlive(i *Instance) {
	i.ext = &keepAliveCache{entries: make(map[string]*vdom.VNode)}
}

func destroyKeepAlive(i *Instance) {
	c := cacheOf(i)
	for _, key := range slices.Clone(c.keys) {
		c.prune(key, nil)
	}
}

func watchKeepAlivePatterns(i *Instance) {
	i.Watch("include", func(val, _ any) {
		cacheOf(i).pruneWhere(i.tree, func(name string) bool { return matches(val, name) })
	}, WatchOptions{})
	i.Watch("exclude", func(val, _ any) {
		cacheOf(i).pruneWhere(i.tree, func(name string) bool { return !matches(val, name) })
	}, WatchOptions{})
}

func renderKeepAlive(i *Instance) *vdom.VNode {
	vnode := firstComponentChild(i.slots)
	if vnode == nil {
		if len(i.slots) > 0 {
			return i.slots[0]
		}
		return nil
	}
	co := vnode.ComponentOptions
	name := componentName(co)
	include, exclude := i.Get("include"), i.Get("exclude")
	if include != nil && (name == "" || !matches(include, name)) ||
		exclude != nil && name != "" && matches(exclude, name) {
		return vnode
	}

	c := cacheOf(i)
	key := vnode.Key
	if key == "" {
		def, _ := co.Ctor.(*Options)
		key = fmt.Sprintf("%d::%s", i.r.cid(def), co.Tag)
	}
	if cached, ok := c.entries[key]; ok {
		vnode.ComponentInstance = cached.ComponentInstance
		c.touch(key)
	} else {
		c.entries[key] = vnode
		c.keys = append(c.keys, key)
		if limit, ok := i.Get("max").(int); ok && limit > 0 && len(c.keys) > limit {
			c.prune(c.keys[0], i.tree)
		}
	}

	if vnode.Data == nil {
		vnode.Data = &vdom.Data{}
	}
	vnode.Data.KeepAlive = true
	return vnode
}

func (c *keepAliveCache) touch(key string) {
	if idx := slices.Index(c.keys, key); idx >= 0 {
		c.keys = slices.Delete(c.keys, idx, idx+1)
	}
	c.keys = append(c.keys, key)
}

func (c *keepAliveCache) pruneWhere(current *vdom.VNode, keep func(name string) bool) {
	for _, key := range slices.Clone(c.keys) {
		cached := c.entries[key]
		if name := componentName(cached.ComponentOptions); name != "" && !keep(name) {
			c.prune(key, current)
		}
	}
}

// prune drops key from the cache and destroys its instance unless it is
// the one currently rendered.
func (c *keepAliveCache) prune(key string, current *vdom.VNode) {
	cached, ok := c.entries[key]
	if ok && (current == nil || cached.Tag != current.Tag) {
		if inst, ok := cached.ComponentInstance.(*Instance); ok {
			inst.Destroy()
		}
	}
	delete(c.entries, key)
	if idx := slices.Index(c.keys, key); idx >= 0 {
		c.keys = slices.Delete(c.keys, idx, idx+1)
	}
}

func firstComponentChild(children []*vdom.VNode) *vdom.VNode {
	for _, c := range children {
		if c != nil && c.ComponentOptions != nil {
			return c
		}
	}
	return nil
}

func componentName(co *vdom.ComponentOptions) string {
	if co == nil {
		return ""
	}
	if def, ok := co.Ctor.(*Options); ok && def != nil && def.Name != "" {
		return def.Name
	}
	return co.Tag
}

func matches(pattern any, name string) bool {
	switch p := pattern.(type) {
	case string:
		return slices.Contains(strings.Split(p, ","), name)
	case []string:
		return slices.Contains(p, name)
	case *regexp.Regexp:
		return p != nil && p.MatchString(name)
	default:
		return false
	}
}
