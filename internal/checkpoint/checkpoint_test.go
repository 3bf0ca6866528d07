package checkpoint

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type fakeSnapshotter struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (f *fakeSnapshotter) Checkpoint(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	return f.err
}

func TestStartDisabledWithoutCron(t *testing.T) {
	cancel, err := Start(context.Background(), &fakeSnapshotter{}, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
}

func TestStartRejectsInvalidCron(t *testing.T) {
	if _, err := Start(context.Background(), &fakeSnapshotter{}, "not a cron"); err == nil {
		t.Fatalf("expected error for invalid cron expression")
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	cancel, err := Start(ctx, &fakeSnapshotter{}, "0 3 * * *")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	cancelCtx()
	cancel()
}

func TestRunOnceNamesSnapshots(t *testing.T) {
	snap := &fakeSnapshotter{}
	runOnce(snap)
	if len(snap.names) != 1 || !strings.HasPrefix(snap.names[0], "checkpoint-") {
		t.Fatalf("unexpected snapshot names: %v", snap.names)
	}

	// Failures must not panic or retry inline.
	snap.err = errors.New("disk full")
	runOnce(snap)
	if len(snap.names) != 2 {
		t.Fatalf("failed snapshot not attempted exactly once")
	}
}
