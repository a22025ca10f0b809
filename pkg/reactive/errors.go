package reactive

import "errors"

// ErrInvalidTarget is returned by Set and Delete when the target is not a
// reactive container (nil, a primitive, or a key of the wrong type).
var ErrInvalidTarget = errors.New("reactive: invalid target")

// ErrRootData is returned by Set and Delete when adding or removing a key on
// a component instance or on its root data object.
var ErrRootData = errors.New("reactive: cannot add or delete root data properties")

// ErrLoopAlreadyRunning is returned when Run is called on a Loop that is already running.
var ErrLoopAlreadyRunning = errors.New("reactive: loop is already running")

// ErrLoopTerminated is returned when work is submitted to a Loop that has stopped.
var ErrLoopTerminated = errors.New("reactive: loop has been terminated")

// ErrUpdateLoop is wrapped by the E103 diagnostic reported when a watcher
// keeps re-queuing itself during a flush.
var ErrUpdateLoop = errors.New("reactive: infinite update loop")
