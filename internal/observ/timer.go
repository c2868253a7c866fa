// Package observ times the phases of one command for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase is one finished step of a command.
type Phase struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer collects phases. A nil *Timer records nothing, so callers need no
// checks when timings are off. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	now    func() time.Time
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), now: time.Now}
}

// Track starts a phase; calling the returned func ends it.
func (t *Timer) Track(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	start := t.now()
	return func(note string) {
		dur := t.now().Sub(start)
		t.mu.Lock()
		defer t.mu.Unlock()
		t.phases = append(t.phases, Phase{Name: name, Dur: dur, Note: note})
	}
}

// Phases returns the finished phases in completion order.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Phase(nil), t.phases...)
}

// Total is the sum of all phase durations.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.Phases() {
		total += p.Dur
	}
	return total
}

// Summary renders the phases as an aligned table.
func (t *Timer) Summary() string {
	phases := t.Phases()
	if len(phases) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range phases {
		fmt.Fprintf(&b, "  %-24s %8.2f ms", p.Name, millis(p.Dur))
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-24s %8.2f ms\n", "total", millis(t.Total()))
	return b.String()
}

// Fields renders the phases as log fields.
func (t *Timer) Fields() []zap.Field {
	phases := t.Phases()
	fields := make([]zap.Field, 0, len(phases))
	for _, p := range phases {
		fields = append(fields, zap.Duration(p.Name, p.Dur))
	}
	return fields
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
