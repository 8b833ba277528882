package runlog

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFormatLogLine(t *testing.T) {
	ts := time.Date(2025, 12, 26, 15, 30, 45, 0, time.UTC)

	tests := []struct {
		name     string
		event    Event
		contains []string
	}{
		{
			name:     "start",
			event:    Event{Timestamp: ts, Type: EventStart},
			contains: []string{"2025-12-26 15:30:45", "[start]", "run=abc", "run started"},
		},
		{
			name:     "derived with context",
			event:    Event{Timestamp: ts, Type: EventDerived, Context: "Ds: 72 terms"},
			contains: []string{"[derived]", "derivation ready (Ds: 72 terms)"},
		},
		{
			name:     "checkpoint",
			event:    Event{Timestamp: ts, Type: EventCheckpoint, Context: "SR_F"},
			contains: []string{"[checkpoint]", "checkpoint failed (SR_F)"},
		},
		{
			name:     "unknown type",
			event:    Event{Timestamp: ts, Type: "custom", Context: "x"},
			contains: []string{"[custom]", "custom x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := formatLogLine("abc", tt.event)
			for _, want := range tt.contains {
				if !strings.Contains(line, want) {
					t.Errorf("formatLogLine() = %q, want it to contain %q", line, want)
				}
			}
		})
	}
}

func TestLogger_VerboseGating(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	if err := l.Log(EventStart, ""); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("info events should be quiet without verbose, got %q", buf.String())
	}
	if err := l.Log(EventCheckpoint, "EZ"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "checkpoint failed (EZ)") {
		t.Errorf("failures should always be logged, got %q", buf.String())
	}
}

func TestLogger_RunID(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	if _, err := uuid.Parse(l.RunID()); err != nil {
		t.Fatalf("run id should be a UUID: %v", err)
	}
	_ = l.Log(EventDone, "")
	if !strings.Contains(buf.String(), "run="+l.RunID()) {
		t.Errorf("line should carry the run id, got %q", buf.String())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Log(EventSweepPoint, "1/20")
		}()
	}
	wg.Wait()
	if n := strings.Count(buf.String(), "\n"); n != 20 {
		t.Errorf("want 20 lines, got %d", n)
	}
}
