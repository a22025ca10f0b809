// Package memdom is an in-memory platform: a minimal document tree that
// implements platform.NodeOps, platform.Setters and platform.Hydrator.
//
// Every structural change is appended to the document's mutation log, so
// tests and benchmarks can count exactly what a patch did:
//
//	doc := memdom.NewDocument()
//	p := patch.New(doc, doc)
//	p.Mount(doc.Body(), tree, false)
//	doc.Counts() // creates, inserts, moves, removes
//
// The committed tree serializes to HTML with Render.
package memdom
