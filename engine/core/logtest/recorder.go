// Package logtest provides a core.Logger that keeps what it was given, for assertions in tests.
package logtest

import (
	"fmt"
	"strings"
	"sync"
)

type Entry struct {
	Level   string
	Message string
}

type Recorder struct {
	mutex   sync.Mutex
	entries []Entry
}

func (r *Recorder) record(level, format string, args ...interface{}) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (r *Recorder) Debugf(format string, args ...interface{}) { r.record("debug", format, args...) }
func (r *Recorder) Infof(format string, args ...interface{})  { r.record("info", format, args...) }
func (r *Recorder) Warnf(format string, args ...interface{})  { r.record("warn", format, args...) }
func (r *Recorder) Errorf(format string, args ...interface{}) { r.record("error", format, args...) }

// Entries returns the recorded entries of the given level, or all of them for an empty level.
func (r *Recorder) Entries(level string) []Entry {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether a message of the given level contains substr.
func (r *Recorder) Contains(level, substr string) bool {
	for _, e := range r.Entries(level) {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
