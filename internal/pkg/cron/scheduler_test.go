package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var a, b int32
	s.AddJob("a", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&a, 1)
		return nil
	})
	s.AddJob("b", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&b, 1)
		return errors.New("boom")
	})

	err := s.RunOnce(context.Background())

	assert.EqualError(t, err, "boom")
	assert.Equal(t, int32(1), atomic.LoadInt32(&a))
	assert.Equal(t, int32(1), atomic.LoadInt32(&b))
}

func TestScheduler_RunOnceRecoversPanic(t *testing.T) {
	s := NewScheduler()
	var after int32
	s.AddJob("explode", time.Hour, func(ctx context.Context) error {
		panic("nil schedule")
	})
	s.AddJob("after", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&after, 1)
		return nil
	})

	err := s.RunOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode panicked")
	assert.Equal(t, int32(1), atomic.LoadInt32(&after))
}

func TestScheduler_RunContextHasTimeout(t *testing.T) {
	s := NewScheduler()
	var deadline time.Time
	var ok bool
	s.AddJob("deadline", time.Minute, func(ctx context.Context) error {
		deadline, ok = ctx.Deadline()
		return nil
	})

	require.NoError(t, s.RunOnce(context.Background()))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
	s.Stop()
}
