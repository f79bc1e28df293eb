package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type countingTarget struct{ calls atomic.Int32 }

func (c *countingTarget) Sweep(time.Time) int {
	c.calls.Add(1)
	return 1
}

func TestRunSweepsUntilCancelled(t *testing.T) {
	target := &countingTarget{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		New(target, 5*time.Millisecond, logrus.New()).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return target.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
