// Package remote renders components on the server and streams the
// resulting DOM operations to browsers over websockets.
//
// Every connection gets a Session: its own reactive runtime driven by a
// reactive.Loop, an in-memory document and a root instance of the app.
// The patcher's recorder turns every applied operation into a protocol
// patch; the batch produced by one task is sent as a single frame.
// Events the client forwards are dispatched to the listener on the
// addressed node, on the loop goroutine.
//
//	hub := remote.NewHub(app, nil)
//	http.ListenAndServe(":3000", hub.Routes())
//
// State changes from outside the session go through Session.Do or
// Hub.Update, which run on each session's loop.
package remote
