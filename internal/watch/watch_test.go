package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDeliversWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	fw, err := New()
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		t.Fatalf("failed to watch dir: %v", err)
	}

	if err := os.WriteFile(path, []byte("b"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-fw.Events():
			if filepath.Clean(ev.Path) == path && ev.Op&OpWrite != 0 {
				return
			}
		case err := <-fw.Errors():
			t.Fatalf("watch error: %v", err)
		case <-deadline:
			t.Fatal("no write event delivered")
		}
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	fw, err := New()
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}

func TestDebounceCollapsesBursts(t *testing.T) {
	in := make(chan Event)
	out := Debounce(in, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		in <- Event{Path: "suite.yaml", Op: OpWrite}
	}
	in <- Event{Path: "suite.yaml", Op: OpChmod}

	select {
	case ev := <-out:
		if ev.Op&OpWrite == 0 || ev.Op&OpChmod == 0 {
			t.Errorf("merged event lost ops: %v", ev.Op)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced event never fired")
	}

	// Quiet input must not produce further events.
	select {
	case ev := <-out:
		t.Errorf("unexpected extra event: %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}

	close(in)
	if _, ok := <-out; ok {
		t.Error("output not closed after input closed")
	}
}

func TestDebounceFlushesPendingOnClose(t *testing.T) {
	in := make(chan Event, 1)
	out := Debounce(in, time.Hour)

	in <- Event{Path: "suite.yaml", Op: OpWrite}
	// Give the goroutine a moment to pick the event up before closing.
	time.Sleep(20 * time.Millisecond)
	close(in)

	select {
	case ev, ok := <-out:
		if !ok {
			t.Fatal("output closed without flushing pending event")
		}
		if ev.Op&OpWrite == 0 {
			t.Errorf("flushed event lost op: %v", ev.Op)
		}
	case <-time.After(time.Second):
		t.Fatal("pending event never flushed")
	}
}
