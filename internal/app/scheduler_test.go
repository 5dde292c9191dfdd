package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) PruneExpired(context.Context, time.Time) (int, error) {
	p.calls.Add(1)
	return 1, nil
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	pruner := &countingPruner{}
	s := NewScheduler(pruner, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())

	assert.Eventually(t, func() bool {
		return pruner.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := pruner.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, pruner.calls.Load())
}
