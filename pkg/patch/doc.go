// Package patch reconciles virtual trees against platform nodes.
//
// A Patcher compares the previously committed tree with a newly rendered
// one and applies the difference through platform.NodeOps and
// platform.Setters. Children are matched with a four-pointer scan over both
// child lists (start/start, end/end, start/end, end/start), falling back to
// a key lookup, so common edits (append, prepend, remove, reverse, rotate)
// touch the minimum number of nodes.
//
//	p := patch.New(doc, doc, patch.WithPredicates(platform.HTML{}))
//	p.Mount(root, tree, false)
//	p.Patch(tree, next)
//
// Every applied operation can be observed through a Recorder, which is how
// the remote adapter streams changes to clients.
package patch
