package worker

import (
	"context"
	"log"
	"time"
)

const DefaultRetentionTick = time.Hour

// ProspectPurger removes stored prospects created before cutoff.
type ProspectPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ProspectRetentionWorker periodically deletes prospects older than the
// retention window.
type ProspectRetentionWorker struct {
	repo         ProspectPurger
	retention    time.Duration
	tickInterval time.Duration
	now          func() time.Time
}

func NewProspectRetentionWorker(repo ProspectPurger, retention, tick time.Duration) *ProspectRetentionWorker {
	if tick <= 0 {
		tick = DefaultRetentionTick
	}
	return &ProspectRetentionWorker{
		repo:         repo,
		retention:    retention,
		tickInterval: tick,
		now:          time.Now,
	}
}

// Start blocks until ctx is done. A non-positive retention disables the worker.
func (w *ProspectRetentionWorker) Start(ctx context.Context) {
	if w.retention <= 0 {
		log.Println("🕒 Prospect retention disabled")
		return
	}
	log.Printf("🕒 Prospect retention worker started (%s window)", w.retention)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.purge(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Prospect retention worker stopped")
			return
		case <-ticker.C:
			w.purge(ctx)
		}
	}
}

func (w *ProspectRetentionWorker) purge(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.retention)
	n, err := w.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Prospect purge failed: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("✅ %d prospect(s) older than %s purged", n, cutoff.Format(time.RFC3339))
	}
	return n
}
