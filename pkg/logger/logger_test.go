//go:build unit

package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestNoopLogger_Logf(t *testing.T) {
	log := NewNoopLogger()

	// This should not panic or produce any output
	log.Logf("synced spec")
	log.Logf("synced %d issues from %s", 3, "docs/spec.md")
}

func TestWriterLogger_Logf(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriterLogger(&buf)

	log.Logf("synced %d issues from %s", 3, "docs/spec.md")

	got := buf.String()
	want := "synced 3 issues from docs/spec.md\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestWriterLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriterLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			log.Logf("created issue %d", id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("Expected 10 log lines, got %d", len(lines))
	}
}
