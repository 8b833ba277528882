// Package runlog records the lifecycle events of a derivation run.
package runlog

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of run event.
type EventType string

const (
	// EventStart marks the beginning of a run.
	EventStart EventType = "start"
	// EventConfig records where configuration came from.
	EventConfig EventType = "config"
	// EventActivation records the activation outcome.
	EventActivation EventType = "activation"
	// EventDerived indicates the symbolic derivation finished.
	EventDerived EventType = "derived"
	// EventCheckpoint indicates a checkpoint failed to evaluate.
	EventCheckpoint EventType = "checkpoint"
	// EventSweepPoint reports sweep progress.
	EventSweepPoint EventType = "sweep"
	// EventDone indicates the run finished.
	EventDone EventType = "done"
)

// Event is a single run event.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Context   string
}

// Logger writes events for one run. Informational events are only written
// when verbose; failures are always written. It is safe for concurrent use.
type Logger struct {
	w       io.Writer
	runID   string
	verbose bool
	mu      sync.Mutex
}

// New creates a Logger with a fresh run id.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{w: w, runID: uuid.NewString(), verbose: verbose}
}

// RunID returns the id stamped on every line.
func (l *Logger) RunID() string { return l.runID }

// LogEvent writes a single event.
func (l *Logger) LogEvent(event Event) error {
	if !l.verbose && !event.Type.failure() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := io.WriteString(l.w, formatLogLine(l.runID, event)+"\n"); err != nil {
		return fmt.Errorf("writing log line: %w", err)
	}
	return nil
}

// Log is a convenience method that creates an Event and logs it.
func (l *Logger) Log(eventType EventType, context string) error {
	return l.LogEvent(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Context:   context,
	})
}

func (t EventType) failure() bool { return t == EventCheckpoint }

// formatLogLine formats an event as a human-readable log line.
// Format: 2025-12-26 15:30:45 [derived] run=<uuid> derivation ready (Ds: 72 terms)
func formatLogLine(runID string, e Event) string {
	ts := e.Timestamp.Format("2006-01-02 15:04:05")

	var detail string
	switch e.Type {
	case EventStart:
		detail = "run started"
	case EventConfig:
		detail = withContext("configuration loaded", e.Context)
	case EventActivation:
		detail = withContext("activation checked", e.Context)
	case EventDerived:
		detail = withContext("derivation ready", e.Context)
	case EventCheckpoint:
		detail = withContext("checkpoint failed", e.Context)
	case EventSweepPoint:
		detail = withContext("sweep progress", e.Context)
	case EventDone:
		detail = withContext("run finished", e.Context)
	default:
		detail = fmt.Sprintf("%s %s", e.Type, e.Context)
	}
	return fmt.Sprintf("%s [%s] run=%s %s", ts, e.Type, runID, detail)
}

func withContext(detail, context string) string {
	if context == "" {
		return detail
	}
	return fmt.Sprintf("%s (%s)", detail, context)
}
