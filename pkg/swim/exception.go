package swim

import (
	"errors"
)

var (
	// ErrRunning occurs when try to start swim server which is already running.
	ErrRunning = errors.New("swim: server is already running")
	// ErrStopped occurs when try to stop swim server which is already stopped.
	ErrStopped = errors.New("swim: server is already stopped")
)
