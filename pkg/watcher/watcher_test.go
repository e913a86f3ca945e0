package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func waitChanged(t *testing.T, w *Watcher, within time.Duration) bool {
	t.Helper()
	select {
	case <-w.Changed():
		return true
	case <-time.After(within):
		return false
	}
}

func TestNewRequiresFiles(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoFiles) {
		t.Errorf("err = %v, want ErrNoFiles", err)
	}
}

func TestNewDedupesPaths(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Nodes.json")
	w, err := New([]string{p, p, filepath.Join(dir, ".", "Nodes.json")})
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Paths(); len(got) != 1 || got[0] != p {
		t.Errorf("paths = %v", got)
	}
}

func TestDetectsChange(t *testing.T) {
	for _, poll := range []bool{false, true} {
		name := "fsnotify"
		if poll {
			name = "polling"
		}
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			edges := filepath.Join(dir, "Edge-Relation.json")
			nodes := filepath.Join(dir, "Nodes.json")
			writeFile(t, edges, "[]")
			writeFile(t, nodes, "[]")

			w, err := New([]string{edges, nodes},
				WithDebounce(20*time.Millisecond),
				WithPollInterval(20*time.Millisecond),
				WithForcePoll(poll),
			)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Start(context.Background()); err != nil {
				t.Fatal(err)
			}
			defer w.Stop()
			if poll && !w.Polling() {
				t.Error("expected polling mode")
			}

			// Make sure the mtime moves even on coarse filesystems.
			time.Sleep(20 * time.Millisecond)
			writeFile(t, nodes, `[{"id":"a"}]`)

			if !waitChanged(t, w, 2*time.Second) {
				t.Fatal("change not reported")
			}
		})
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	nodes := filepath.Join(dir, "Nodes.json")
	writeFile(t, nodes, "[]")

	w, err := New([]string{nodes}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "notes.txt"), "unrelated")
	if waitChanged(t, w, 200*time.Millisecond) {
		t.Error("unrelated file reported as a change")
	}
}

func TestDebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	nodes := filepath.Join(dir, "Nodes.json")
	writeFile(t, nodes, "[]")

	w, err := New([]string{nodes}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	var fired atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-w.Changed():
				fired.Add(1)
			case <-time.After(300 * time.Millisecond):
				return
			}
		}
	}()
	for i := 0; i < 5; i++ {
		w.trigger()
		time.Sleep(5 * time.Millisecond)
	}
	<-done

	if n := fired.Load(); n != 1 {
		t.Errorf("fired %d times, want 1", n)
	}
}

func TestStartTwice(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "Nodes.json")}, WithForcePoll(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if err := w.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("err = %v, want ErrAlreadyStarted", err)
	}
}

func TestPollReportsRemoval(t *testing.T) {
	dir := t.TempDir()
	nodes := filepath.Join(dir, "Nodes.json")
	writeFile(t, nodes, "[]")

	var removed atomic.Bool
	w, err := New([]string{nodes}, WithForcePoll(true), WithPollInterval(time.Hour),
		WithOnError(func(err error) {
			if errors.Is(err, ErrFileRemoved) {
				removed.Store(true)
			}
		}))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(nodes); err != nil {
		t.Fatal(err)
	}
	if w.poll() {
		t.Error("removal alone should not count as a change")
	}
	if !removed.Load() {
		t.Error("removal not reported")
	}
}
