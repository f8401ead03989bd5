package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/usecase"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
)

// Recalculator re-rates every stored operation
type Recalculator interface {
	Recalculate(ctx context.Context) (*usecase.RecalcSummary, error)
}

// RecalcWorker periodically re-rates stored operations so saved results follow the current methodology.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
type RecalcWorker struct {
	rating   Recalculator
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewRecalcWorker creates a worker running rating.Recalculate every interval
func NewRecalcWorker(rating Recalculator, interval time.Duration) *RecalcWorker {
	return &RecalcWorker{
		rating:   rating,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background loop. The first pass runs immediately without blocking the caller.
func (w *RecalcWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("recalculation interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Recalculation worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *RecalcWorker) Stop() {
	logging.Default().Info("Recalculation worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Recalculation worker stopped")
}

func (w *RecalcWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.recalculate(ctx); err != nil {
		logging.Default().Error("Initial recalculation failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.recalculate(ctx); err != nil {
				logging.Default().Error("Recalculation failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Recalculation worker context cancelled")
			return
		}
	}
}

func (w *RecalcWorker) recalculate(ctx context.Context) error {
	startTime := time.Now()

	summary, err := w.rating.Recalculate(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to recalculate ratings")
	}

	logging.Default().Info("Recalculation completed",
		"total", summary.Total,
		"rated", summary.Rated,
		"changed", len(summary.Changed),
		"duration", time.Since(startTime).String())

	return nil
}
