package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetweenStaysWithinBounds(t *testing.T) {
	h := NewHumanDelay()

	for range 200 {
		d := h.Between(0.5, 1.5)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}

func TestBetweenDegenerateRange(t *testing.T) {
	h := NewHumanDelay()

	assert.Equal(t, 750*time.Millisecond, h.Between(0.75, 0.75))
	assert.Equal(t, 2*time.Second, h.Between(2, 1))
}

func TestWaitReturnsNoEarlierThanMin(t *testing.T) {
	h := NewHumanDelay()

	start := time.Now()
	err := h.Wait(context.Background(), 0.02, 0.05)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestWaitObservesCancellation(t *testing.T) {
	h := NewHumanDelay()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := h.Wait(ctx, 5, 10)

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitCallsAreIndependent(t *testing.T) {
	h := NewHumanDelay()
	var total time.Duration
	for range 5 {
		total += h.Between(0.01, 0.02)
	}
	// Five calls never exceed five maxima; no cumulative drift.
	assert.LessOrEqual(t, total, 5*20*time.Millisecond)
}
