package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"notasapp/pkg/shutdown"
)

func TestWaitRunsHooksOnContextCancel(t *testing.T) {
	var calls atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		shutdown.Wait(ctx, time.Second,
			func(context.Context) error { calls.Add(1); return nil },
			func(context.Context) error { calls.Add(1); return errors.New("boom") },
		)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestRunRespectsTimeout(t *testing.T) {
	start := time.Now()

	shutdown.Run(context.Background(), 50*time.Millisecond, func(ctx context.Context) error {
		<-time.After(time.Second)
		return nil
	})

	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
