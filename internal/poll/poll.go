// Package poll runs bounded retry loops against asynchronous provider jobs.
package poll

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrExhausted is returned when every attempt reported the job as still running.
var ErrExhausted = errors.New("polling attempts exhausted")

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy is a bounded exponential backoff. After every unfinished attempt the
// loop sleeps Initial*Multiplier^(n-1) before continuing.
type Policy struct {
	MaxAttempts int
	Initial     time.Duration
	Multiplier  float64

	// Sleep replaces the real timer, mainly in tests.
	Sleep SleepFunc
}

// DefaultPolicy is 8 attempts starting at one second, doubling each time.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 8, Initial: time.Second, Multiplier: 2}
}

// Stats describe a finished polling loop.
type Stats struct {
	Attempts int
	Waited   time.Duration
}

// Delay returns the sleep after attempt n (1-based).
func (p Policy) Delay(n int) time.Duration {
	if n < 1 {
		return 0
	}
	mult := p.Multiplier
	if mult <= 0 {
		mult = 1
	}
	return time.Duration(float64(p.Initial) * math.Pow(mult, float64(n-1)))
}

// TotalWait returns the accumulated delay when every attempt is used.
func (p Policy) TotalWait() time.Duration {
	var total time.Duration
	for n := 1; n <= p.MaxAttempts; n++ {
		total += p.Delay(n)
	}
	return total
}

// Run calls attempt until it reports done, returns an error, or the attempts
// run out. Attempt numbers start at 1.
func (p Policy) Run(ctx context.Context, attempt func(ctx context.Context, n int) (done bool, err error)) (Stats, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var stats Stats
	for n := 1; n <= p.MaxAttempts; n++ {
		stats.Attempts = n
		done, err := attempt(ctx, n)
		if err != nil {
			return stats, err
		}
		if done {
			return stats, nil
		}

		d := p.Delay(n)
		if err := sleep(ctx, d); err != nil {
			return stats, err
		}
		stats.Waited += d
	}
	return stats, ErrExhausted
}

// Sleep waits on a timer, returning early with ctx.Err() when ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
