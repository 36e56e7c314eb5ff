package mlog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Log wraps logrus.Logger and holds information of logging file.
type Log struct {
	*logrus.Logger

	file     *os.File
	location string
	mu       sync.Mutex
}

// New creates Log object.
// TODO: logging with linux logrotate.
func New(location string) (*Log, error) {
	l := &Log{}

	l.Logger = logrus.New()
	l.location = location

	if l.location == "stderr" || l.location == "" {
		l.Out = os.Stderr
		l.file = nil
	} else {
		f, err := os.OpenFile(location, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return nil, err
		}
		l.Out = f
		l.file = f
	}

	return l, nil
}

var (
	global   *Log
	globalMu sync.Mutex
)

// Init sets the process wide logger up. Packages fetch tagged entries
// from it with the getters below.
func Init(location string) error {
	l, err := New(location)
	if err != nil {
		return err
	}

	globalMu.Lock()
	global = l
	globalMu.Unlock()

	return nil
}

// SetLevel applies the given logrus level string to the global logger.
func SetLevel(level string) error {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	get().SetLevel(lv)
	return nil
}

// GetPackageLogger returns an entry tagged with the given package path.
func GetPackageLogger(pkg string) *logrus.Entry {
	return get().WithField("package", pkg)
}

// GetFunctionLogger returns an entry derived from the given package
// entry, tagged with a function name.
func GetFunctionLogger(entry *logrus.Entry, function string) *logrus.Entry {
	return entry.WithField("function", function)
}

// GetMethodLogger returns an entry derived from the given package
// entry, tagged with a method name.
func GetMethodLogger(entry *logrus.Entry, method string) *logrus.Entry {
	return entry.WithField("method", method)
}

// get falls back to a stderr logger when Init has not run, which keeps
// tests and one-shot commands working without setup.
func get() *Log {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		global, _ = New("stderr")
	}
	return global
}
