package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HOLYLABS972/esim-main-sub002/internal/service"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// SyncWorker runs the catalog sync on a fixed interval. The enabled flag
// is re-read from settings on every tick, so flipping it off takes effect
// without a restart.
type SyncWorker struct {
	sync     *service.SyncService
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewSyncWorker creates a new SyncWorker.
func NewSyncWorker(sync *service.SyncService, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		sync:     sync,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the worker loop. The first sync runs one minute after
// startup so the service comes up serving before it starts pulling.
func (w *SyncWorker) Start() {
	go w.run()
	log.Info().Dur("interval", w.interval).Msg("catalog sync worker started")
}

// Stop signals the worker and waits for the loop to exit. A sync already
// in flight finishes first.
func (w *SyncWorker) Stop() {
	close(w.stop)
	<-w.done
	log.Info().Msg("catalog sync worker stopped")
}

func (w *SyncWorker) run() {
	defer close(w.done)

	initial := time.NewTimer(time.Minute)
	defer initial.Stop()

	select {
	case <-initial.C:
		w.runOnce()
	case <-w.stop:
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce()
		case <-w.stop:
			return
		}
	}
}

func (w *SyncWorker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := w.sync.Run(ctx, "scheduled"); err != nil {
		if err == utils.ErrSyncDisabled {
			log.Info().Msg("catalog sync disabled, skipping run")
			return
		}
		log.Error().Err(err).Msg("scheduled catalog sync failed")
	}
}
