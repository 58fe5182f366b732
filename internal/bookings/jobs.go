package bookings

import (
	"context"
	"time"

	"ticketly/pkg/logger"
)

// JobProcessor runs the expiry reclaimer on a fixed interval. The loop is
// serial, so at most one sweep runs at a time per process.
type JobProcessor struct {
	service  Service
	interval time.Duration
	log      *logger.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewJobProcessor creates the background reclaimer
func NewJobProcessor(service Service, interval time.Duration) *JobProcessor {
	return &JobProcessor{
		service:  service,
		interval: interval,
		log:      logger.GetDefault(),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine
func (jp *JobProcessor) Start(ctx context.Context) {
	ctx, jp.cancel = context.WithCancel(ctx)

	go func() {
		defer close(jp.done)

		jp.log.Info("expiry reclaimer started", "interval", jp.interval.String())
		ticker := time.NewTicker(jp.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				jp.log.Info("expiry reclaimer stopped")
				return
			case <-ticker.C:
				if _, err := jp.service.ReclaimExpired(ctx); err != nil {
					jp.log.WithError(err).Error("expiry sweep failed")
				}
			}
		}
	}()
}

// Stop cancels the loop and waits for the in-flight sweep to finish
func (jp *JobProcessor) Stop() {
	if jp.cancel != nil {
		jp.cancel()
	}
	<-jp.done
}
