package bookings

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sweepCounter struct {
	Service
	sweeps atomic.Int64
}

func (s *sweepCounter) ReclaimExpired(ctx context.Context) (int, error) {
	s.sweeps.Add(1)
	return 0, nil
}

func TestJobProcessorSweepsOnInterval(t *testing.T) {
	counter := &sweepCounter{}
	jp := NewJobProcessor(counter, 10*time.Millisecond)

	jp.Start(context.Background())

	assert.Eventually(t, func() bool {
		return counter.sweeps.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	jp.Stop()
	after := counter.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, counter.sweeps.Load(), "no sweeps after Stop")
}
