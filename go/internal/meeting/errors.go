package meeting

import "errors"

var (
	// ErrNotInSession is returned by operations that need a running session.
	ErrNotInSession = errors.New("no meeting in session")
	// ErrSessionInProgress is returned when a session is started over a live one.
	ErrSessionInProgress = errors.New("meeting already in session")
	// ErrPersistFailed wraps history write failures. State is left unchanged.
	ErrPersistFailed = errors.New("failed to persist history")
)
