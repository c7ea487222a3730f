package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ReminderFacade exposes the subset of application functionality required by the dispatcher.
type ReminderFacade interface {
	DispatchReminders(ctx context.Context, asOf time.Time) (int, error)
}

// ReminderDispatcher periodically sends payment reminders for
// installments due on the current day.
type ReminderDispatcher struct {
	facade       ReminderFacade
	pollInterval time.Duration
	logger       *slog.Logger
	now          func() time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReminderDispatcher constructs the reminder dispatcher.
func NewReminderDispatcher(facade ReminderFacade, pollInterval time.Duration, logger *slog.Logger) *ReminderDispatcher {
	return &ReminderDispatcher{
		facade:       facade,
		pollInterval: pollInterval,
		logger:       logger,
		now:          time.Now,
	}
}

// Start launches background dispatching.
func (d *ReminderDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.loop(runCtx)
}

// Stop waits for the dispatch loop to finish.
func (d *ReminderDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *ReminderDispatcher) loop(ctx context.Context) {
	defer d.wg.Done()
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.RunOnce(ctx)
		}
	}
}

// RunOnce dispatches reminders due today, returning how many were sent.
func (d *ReminderDispatcher) RunOnce(ctx context.Context) int {
	sent, err := d.facade.DispatchReminders(ctx, d.now())
	if err != nil {
		d.logger.Error("dispatch reminders failed", slog.String("error", err.Error()))
		return sent
	}
	if sent > 0 {
		d.logger.Info("payment reminders dispatched", slog.Int("count", sent))
	}
	return sent
}
