package automaton

import (
	"math"
	"time"
)

// Manual is the period of a throttle that never becomes due by itself
const Manual time.Duration = math.MaxInt64

// Throttle runs steps at a fixed period. Elapsed time accumulates; once it
// exceeds the period a step is due, and starting that step gives the period
// back, clamped to [-period, period] so long pauses do not cause bursts.
type Throttle struct {
	period      time.Duration
	accumulated time.Duration
}

// NewThrottle constructs a Throttle with the given period
func NewThrottle(period time.Duration) *Throttle {
	return &Throttle{period: max(period, 0)}
}

func (t *Throttle) Period() time.Duration { return t.period }

func (t *Throttle) SetPeriod(period time.Duration) { t.period = max(period, 0) }

func (t *Throttle) Accumulated() time.Duration { return t.accumulated }

func (t *Throttle) SetAccumulated(d time.Duration) { t.accumulated = d }

// Accumulate adds elapsed time, saturating instead of overflowing
func (t *Throttle) Accumulate(dt time.Duration) {
	if dt > 0 && t.accumulated > math.MaxInt64-dt {
		t.accumulated = math.MaxInt64
		return
	}
	t.accumulated += dt
}

// Due reports whether the accumulated time exceeds the period
func (t *Throttle) Due() bool { return t.accumulated > t.period }

// Consume accounts for one started step
func (t *Throttle) Consume() {
	if t.period == Manual {
		return
	}
	t.accumulated = min(max(t.accumulated-t.period, -t.period), t.period)
}

// Reset drops the accumulated time
func (t *Throttle) Reset() { t.accumulated = 0 }
