// Package audit records a bounded in-memory trail of lifecycle events for
// post-mortem inspection.
package audit

import (
	"sync"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/srediag/plugin-lifecycle/pkg/events"
)

// ObserverPriority places the trail behind the metrics collector.
const ObserverPriority = 200

const defaultMaxEntries = 256

// Trail is an events.Observer keeping the most recent formatted entries.
type Trail struct {
	mu      sync.Mutex
	entries []string
	max     int
	now     func() time.Time
}

// NewTrail creates a trail holding up to max entries; max <= 0 uses the
// default of 256.
func NewTrail(max int) *Trail {
	if max <= 0 {
		max = defaultMaxEntries
	}
	return &Trail{max: max, now: time.Now}
}

// ID implements events.Observer.
func (t *Trail) ID() string { return "audit" }

// Priority implements events.Observer.
func (t *Trail) Priority() int { return ObserverPriority }

// OnEvent implements events.Observer.
func (t *Trail) OnEvent(ev events.Event) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.WriteString(t.now().UTC().Format(time.RFC3339Nano))
	switch e := ev.(type) {
	case events.PhaseChange:
		_, _ = buf.WriteString(" phase ")
		_, _ = buf.WriteString(e.Old)
		_, _ = buf.WriteString(" -> ")
		_, _ = buf.WriteString(e.New)
	case events.ComponentEvent:
		_, _ = buf.WriteString(" component ")
		_, _ = buf.WriteString(e.Name)
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(e.Op)
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(e.Duration.String())
		if e.Err != nil {
			_, _ = buf.WriteString(" error=")
			_, _ = buf.WriteString(e.Err.Error())
		}
	case events.ErrorEvent:
		_, _ = buf.WriteString(" error context=")
		_, _ = buf.WriteString(e.Context)
		_, _ = buf.WriteString(" phase=")
		_, _ = buf.WriteString(e.Phase)
		if e.Err != nil {
			_, _ = buf.WriteString(" err=")
			_, _ = buf.WriteString(e.Err.Error())
		}
	default:
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, buf.String())
	if len(t.entries) > t.max {
		t.entries = t.entries[len(t.entries)-t.max:]
	}
}

// Entries returns a snapshot of the recorded entries, oldest first.
func (t *Trail) Entries() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of recorded entries.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
