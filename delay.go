package main

import (
	"context"
	"math/rand"
	"time"
)

// HumanDelay produces randomized human-like pauses between simulated actions
// to defeat naive timing-based bot detection. Each call is independent; there
// is no cumulative drift across calls.
type HumanDelay struct {
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

func NewHumanDelay() *HumanDelay {
	return &HumanDelay{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: hesitate,
	}
}

// Wait blocks for a duration drawn uniformly at random from
// [minSeconds, maxSeconds] (millisecond granularity), or returns early with
// the context error if ctx is cancelled.
func (h *HumanDelay) Wait(ctx context.Context, minSeconds, maxSeconds float64) error {
	return h.sleep(ctx, h.Between(minSeconds, maxSeconds))
}

// Between returns a random duration in [minSeconds, maxSeconds].
func (h *HumanDelay) Between(minSeconds, maxSeconds float64) time.Duration {
	minMs := int64(minSeconds * 1000)
	maxMs := int64(maxSeconds * 1000)
	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}
	return time.Duration(minMs+h.rng.Int63n(maxMs-minMs+1)) * time.Millisecond
}

// hesitate pauses execution, respecting context cancellation.
func hesitate(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
