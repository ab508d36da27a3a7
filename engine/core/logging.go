package core

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the logging surface every system receives at construction.
// *log.Logger from charmbracelet/log implements it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type LogOptions struct {
	Level        string
	Prefix       string
	ReportCaller bool
}

func NewLogger(w io.Writer, opts LogOptions) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    opts.ReportCaller,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          opts.Prefix,
	})
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		l.Warnf("unknown log level '%s', falling back to debug", opts.Level)
		level = log.DebugLevel
	}
	l.SetLevel(level)
	return l
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}
