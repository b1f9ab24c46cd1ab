package resilience

import (
	"context"
	"math"
	"time"
)

// Backoff is an exponential wait policy clamped to [Min, Max]:
// wait(n) = clamp(Base * Multiplier^n), n counted from zero.
type Backoff struct {
	Base       time.Duration
	Multiplier float64
	Min        time.Duration
	Max        time.Duration
}

func DefaultBackoff() Backoff {
	return Backoff{
		Base:       time.Second,
		Multiplier: 2,
		Min:        4 * time.Second,
		Max:        10 * time.Second,
	}
}

func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	multiplier := b.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	raw := float64(b.Base) * math.Pow(multiplier, float64(attempt))
	if math.IsInf(raw, 0) || raw > float64(math.MaxInt64) {
		raw = float64(math.MaxInt64)
	}
	delay := time.Duration(raw)
	if b.Min > 0 && delay < b.Min {
		delay = b.Min
	}
	if b.Max > 0 && delay > b.Max {
		delay = b.Max
	}
	return delay
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
