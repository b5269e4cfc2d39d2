// Package timing measures the stages of a completion request.
package timing

import (
	"fmt"
	"strings"
	"time"

	"github.com/NikitaCOEUR/bft/internal/logger"
)

// Stage is the time spent between two marks.
type Stage struct {
	Name     string
	Duration time.Duration
}

// Timer records consecutive stages
type Timer struct {
	start  time.Time
	last   time.Time
	stages []Stage
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	now := time.Now()
	return &Timer{start: now, last: now}
}

// Mark closes the current stage under name and returns its duration.
func (t *Timer) Mark(name string) time.Duration {
	now := time.Now()
	d := now.Sub(t.last)
	t.last = now
	t.stages = append(t.stages, Stage{Name: name, Duration: d})
	return d
}

// Elapsed returns total elapsed time since timer creation
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Get returns the duration of the first stage recorded under name.
func (t *Timer) Get(name string) (time.Duration, bool) {
	for _, s := range t.stages {
		if s.Name == name {
			return s.Duration, true
		}
	}
	return 0, false
}

// Stages returns the recorded stages in order.
func (t *Timer) Stages() []Stage {
	return append([]Stage(nil), t.stages...)
}

// Summary returns a one-line summary such as "total=3.1ms (parse=0.2ms, sources=2.9ms)".
func (t *Timer) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "total=%s", ms(t.Elapsed()))
	if len(t.stages) == 0 {
		return b.String()
	}
	b.WriteString(" (")
	for i, s := range t.stages {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", s.Name, ms(s.Duration))
	}
	b.WriteString(")")
	return b.String()
}

// Log writes every stage at debug level.
func (t *Timer) Log(log *logger.Logger) {
	if log == nil || !log.Enabled("debug") {
		return
	}
	e := log.Debug()
	for _, s := range t.stages {
		e = e.Dur(s.Name, s.Duration)
	}
	e.Dur("total", t.Elapsed()).Msg("timing")
}

// Reset resets the timer
func (t *Timer) Reset() {
	now := time.Now()
	t.start, t.last = now, now
	t.stages = nil
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000.0)
}
