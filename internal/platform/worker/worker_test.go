package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ticks atomic.Int32

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, Config{
			Name:     "test",
			Interval: 5 * time.Millisecond,
			OnTick: func(context.Context) {
				ticks.Add(1)
			},
		})
	}()

	assert.Eventually(t, func() bool {
		return ticks.Load() >= 2
	}, time.Second, time.Millisecond)

	cancel()

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "test")
}

func TestRunOnStartFiresImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fired := make(chan struct{}, 1)

	go func() {
		_ = Run(ctx, Config{
			Name:       "test",
			Interval:   time.Hour,
			RunOnStart: true,
			OnTick: func(context.Context) {
				select {
				case fired <- struct{}{}:
				default:
				}
			},
		})
	}()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("OnTick did not fire on start")
	}

	cancel()
}

func TestRecoverPanic(t *testing.T) {
	nop := zerolog.Nop()

	assert.NotPanics(t, func() {
		defer RecoverPanic(&nop, "test operation")
		panic("boom")
	})
}
