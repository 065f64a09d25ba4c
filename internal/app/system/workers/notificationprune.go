// internal/app/system/workers/notificationprune.go
package workers

import (
	"context"
	"sync"
	"time"

	notificationstore "github.com/kitandahub/kitanda/internal/app/store/notifications"
	"go.uber.org/zap"
)

// NotificationPrune is a background worker that deletes read notifications
// older than the retention window.
type NotificationPrune struct {
	notifications *notificationstore.Store
	log           *zap.Logger
	interval      time.Duration
	retention     time.Duration
	stopCh        chan struct{}
	wg            sync.WaitGroup
}

// NewNotificationPrune creates a pruning worker.
//
// Parameters:
//   - store: the notifications store
//   - logger: zap logger for logging
//   - interval: how often to prune (e.g., 1 hour)
//   - retention: how long read notifications are kept (e.g., 30 days)
func NewNotificationPrune(store *notificationstore.Store, logger *zap.Logger, interval, retention time.Duration) *NotificationPrune {
	return &NotificationPrune{
		notifications: store,
		log:           logger,
		interval:      interval,
		retention:     retention,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the background pruning loop.
func (w *NotificationPrune) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("notification prune worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *NotificationPrune) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("notification prune worker stopped")
}

func (w *NotificationPrune) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.prune()
		}
	}
}

func (w *NotificationPrune) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.retention)
	count, err := w.notifications.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune notifications", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("pruned read notifications", zap.Int64("count", count))
	}
}
