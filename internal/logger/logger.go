// Package logger provides structured logging for bft. Completion runs
// inside a readline binding, so logs usually go to a file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when the configured level is empty or invalid.
const DefaultLevel = logrus.WarnLevel

// Logger writes leveled messages with key/value fields.
type Logger struct {
	log *logrus.Logger
}

// Entry collects fields for one message. Fields added to an entry whose
// level is disabled are dropped without being formatted.
type Entry struct {
	level  logrus.Level
	log    *logrus.Logger
	fields logrus.Fields
}

// New returns a logger writing to w (stderr when nil). Colors are only
// used when w is a terminal.
func New(level string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	tty := isTerminal(w)

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(parseLevel(level))
	l.SetFormatter(&logrus.TextFormatter{
		ForceColors:      tty,
		DisableColors:    !tty,
		DisableTimestamp: tty,
		FullTimestamp:    !tty,
		PadLevelText:     true,
	})
	return &Logger{log: l}
}

// Open returns a logger appending to the file at path, creating it and
// its directory. An empty path logs to stderr. The closer releases the
// file.
func Open(level, path string) (*Logger, io.Closer, error) {
	if path == "" {
		return New(level, os.Stderr), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(level, f), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return &Logger{log: l}
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level string) bool {
	lvl, err := logrus.ParseLevel(level)
	return err == nil && l.log.IsLevelEnabled(lvl)
}

func (l *Logger) Debug() *Entry { return l.at(logrus.DebugLevel) }
func (l *Logger) Info() *Entry  { return l.at(logrus.InfoLevel) }
func (l *Logger) Warn() *Entry  { return l.at(logrus.WarnLevel) }
func (l *Logger) Error() *Entry { return l.at(logrus.ErrorLevel) }

func (l *Logger) at(level logrus.Level) *Entry {
	e := &Entry{level: level, log: l.log}
	if l.log.IsLevelEnabled(level) {
		e.fields = logrus.Fields{}
	}
	return e
}

func (e *Entry) with(key string, value interface{}) *Entry {
	if e.fields != nil {
		e.fields[key] = value
	}
	return e
}

func (e *Entry) Str(key, value string) *Entry     { return e.with(key, value) }
func (e *Entry) Int(key string, value int) *Entry { return e.with(key, value) }
func (e *Entry) Bool(key string, value bool) *Entry {
	return e.with(key, value)
}

// Strs adds a list field, joined with commas.
func (e *Entry) Strs(key string, values []string) *Entry {
	return e.with(key, strings.Join(values, ","))
}

// Err adds the error under the "error" key. A nil error adds nothing.
func (e *Entry) Err(err error) *Entry {
	if err == nil {
		return e
	}
	return e.with(logrus.ErrorKey, err)
}

// Dur adds a duration in milliseconds.
func (e *Entry) Dur(key string, d time.Duration) *Entry {
	return e.with(key, float64(d.Microseconds())/1000)
}

// Msg writes the message with the collected fields.
func (e *Entry) Msg(msg string) {
	if e.fields == nil {
		return
	}
	e.log.WithFields(e.fields).Log(e.level, msg)
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return DefaultLevel
	}
	return lvl
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
