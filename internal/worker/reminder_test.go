package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	testhelpers "github.com/decoteen/orderdesk/internal/test"
)

func TestReminderDispatcherRunOnce(t *testing.T) {
	asOfSeen := time.Time{}
	facade := &testhelpers.ReminderFacadeStub{DispatchFn: func(ctx context.Context, asOf time.Time) (int, error) {
		asOfSeen = asOf
		return 3, nil
	}}
	d := NewReminderDispatcher(facade, time.Second, newTestLogger())
	d.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	if sent := d.RunOnce(context.Background()); sent != 3 {
		t.Fatalf("expected 3 sent, got %d", sent)
	}
	if asOfSeen != time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected asOf passed to facade: %v", asOfSeen)
	}
}

func TestReminderDispatcherRunOnceError(t *testing.T) {
	facade := &testhelpers.ReminderFacadeStub{DispatchFn: func(context.Context, time.Time) (int, error) {
		return 0, errors.New("boom")
	}}
	d := NewReminderDispatcher(facade, time.Second, newTestLogger())

	if sent := d.RunOnce(context.Background()); sent != 0 {
		t.Fatalf("expected 0 sent, got %d", sent)
	}
}

func TestReminderDispatcherLoop(t *testing.T) {
	facade := &testhelpers.ReminderFacadeStub{}
	d := NewReminderDispatcher(facade, 10*time.Millisecond, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		called := facade.Calls > 0
		facade.Unlock()
		if called {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for dispatch tick")
		case <-time.After(10 * time.Millisecond):
		}
	}

	d.Stop()
}

func TestReminderDispatcherStopWithoutStart(t *testing.T) {
	d := NewReminderDispatcher(&testhelpers.ReminderFacadeStub{}, time.Second, newTestLogger())
	d.Stop()
}
