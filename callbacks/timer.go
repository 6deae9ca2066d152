package callbacks

import "time"

// Interval is the granularity at which a Timer checks the elapsed time.
type Interval string

const (
	IntervalStep  Interval = "step"
	IntervalEpoch Interval = "epoch"
)

// Timer stops training when a total time budget is exhausted. The budget
// is checked at the configured interval granularity.
type Timer struct {
	Base

	duration time.Duration
	interval Interval
	started  time.Time
}

// NewTimer returns a timer bounding the run to the given duration.
func NewTimer(duration time.Duration, interval Interval) *Timer {
	return &Timer{duration: duration, interval: interval}
}

func (t *Timer) Kind() Kind { return KindTimer }

// Duration returns the configured time budget.
func (t *Timer) Duration() time.Duration { return t.duration }

// Interval returns the check granularity.
func (t *Timer) Interval() Interval { return t.interval }

func (t *Timer) OnTrainStart() { t.started = time.Now() }

// TimeRemaining returns how much of the budget is left. Before training
// starts it returns the full budget.
func (t *Timer) TimeRemaining() time.Duration {
	if t.started.IsZero() {
		return t.duration
	}
	return t.duration - time.Since(t.started)
}
