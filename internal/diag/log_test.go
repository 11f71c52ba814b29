package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisabledLoggerWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Enabled: false, Out: &buf}
	l.Printf("hello %d", 1)
	l.GC(10, 5)

	if buf.Len() != 0 {
		t.Fatalf("disabled logger wrote %q, want nothing", buf.String())
	}
}

func TestEnabledLoggerWritesFormattedLine(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Enabled: true, Out: &buf}
	l.Printf("hello %d", 1)

	if got := buf.String(); got != "hello 1\n" {
		t.Fatalf("Printf output = %q, want %q", got, "hello 1\n")
	}
}

func TestGCReportsBeforeAfterCounts(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Enabled: true, Out: &buf}
	l.GC(10, 4)

	got := buf.String()
	if !strings.Contains(got, "10") || !strings.Contains(got, "4") || !strings.Contains(got, "6") {
		t.Fatalf("GC output = %q, want it to mention before/after/delta counts", got)
	}
}
