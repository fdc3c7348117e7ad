package vesync

import (
	"errors"

	"github.com/jonboulle/clockwork"

	ierrors "github.com/jmylchreest/vesyncd/internal/errors"
)

// ErrInvalidValue is returned when an unrecognized timer status is supplied.
var ErrInvalidValue = errors.New("invalid value")

// TimerStatus is the lifecycle state of a device countdown timer.
type TimerStatus string

const (
	// TimerActive means the timer is counting down.
	TimerActive TimerStatus = "active"
	// TimerPaused means the countdown is suspended; no time accrues.
	TimerPaused TimerStatus = "paused"
	// TimerDone means the countdown finished. Done is absorbing: once a
	// timer is done it never counts again unless re-armed explicitly.
	TimerDone TimerStatus = "done"
)

// Timer models a device countdown without any background ticking. Remaining
// time is derived lazily from the wall clock: every read or state-changing
// write first reconciles the stored remaining value against the time elapsed
// since the last checkpoint.
//
// A Timer is a plain value object. It owns no goroutine and performs no I/O;
// concurrent use of a single Timer requires external locking (the device
// types in this package hold their own mutex around timer access).
type Timer struct {
	// ID is the caller-assigned timer identifier, as reported by the cloud.
	ID int
	// Duration is the nominal full length in seconds, fixed at creation.
	Duration int64
	// Action is an opaque label for what happens on completion (e.g. "off").
	// The Timer itself does not interpret it.
	Action string

	status TimerStatus
	remain int64
	// checkpoint is the unix second at which remain was last accurate.
	// Zero means no elapsed-time accrual is in progress (paused or done).
	checkpoint int64

	clock clockwork.Clock
}

// TimerInfo is an immutable snapshot of a Timer. Unlike *Timer it is safe to
// hand to other goroutines: the remaining time and status are reconciled once
// at capture and never change afterwards.
type TimerInfo struct {
	ID        int         `json:"id"`
	Duration  int64       `json:"duration"`
	Action    string      `json:"action"`
	Remaining int64       `json:"remaining"`
	Status    TimerStatus `json:"status"`
}

// Info captures a reconciled snapshot of the timer. Like every other
// accessor it folds elapsed time into the stored state, so callers hold the
// same external lock they use for the Timer itself.
func (t *Timer) Info() TimerInfo {
	remaining := t.TimeRemaining()
	return TimerInfo{
		ID:        t.ID,
		Duration:  t.Duration,
		Action:    t.Action,
		Remaining: remaining,
		Status:    t.status,
	}
}

// TimerOption configures a Timer at creation.
type TimerOption func(*Timer)

// WithTimerID sets the caller-assigned timer ID (default 1).
func WithTimerID(id int) TimerOption {
	return func(t *Timer) { t.ID = id }
}

// WithTimerRemaining seeds the remaining seconds from an externally reported
// value instead of the full duration.
func WithTimerRemaining(remaining int64) TimerOption {
	return func(t *Timer) { t.remain = remaining }
}

// WithTimerClock substitutes the wall-clock source. Tests use
// clockwork.NewFakeClock to drive time deterministically.
func WithTimerClock(clock clockwork.Clock) TimerOption {
	return func(t *Timer) { t.clock = clock }
}

// NewTimer creates an active Timer with the given duration in seconds.
// Remaining time defaults to the full duration and the checkpoint is set to
// the current wall-clock time.
func NewTimer(duration int64, action string, opts ...TimerOption) *Timer {
	if duration < 0 {
		duration = 0
	}
	t := &Timer{
		ID:       1,
		Duration: duration,
		Action:   action,
		status:   TimerActive,
		remain:   duration,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.checkpoint = t.now()
	// A zero-length (or negative-seeded) timer is complete immediately.
	t.reconcile()
	return t
}

func (t *Timer) now() int64 {
	return t.clock.Now().Unix()
}

// elapsed returns seconds since the last checkpoint, or 0 when no
// checkpoint is set.
func (t *Timer) elapsed() int64 {
	if t.checkpoint == 0 {
		return 0
	}
	return t.now() - t.checkpoint
}

// reconcile folds wall-clock time elapsed since the last checkpoint into the
// stored remaining value. It runs at the head of every accessor or mutator
// that depends on elapsed time, so observers always see accurate state
// without a ticking goroutine.
func (t *Timer) reconcile() {
	if t.status == TimerPaused {
		t.checkpoint = 0
		return
	}
	if t.status == TimerDone || (t.status == TimerActive && t.elapsed() >= t.remain) {
		t.status = TimerDone
		t.remain = 0
		t.checkpoint = 0
		return
	}
	if t.status == TimerActive {
		t.remain -= t.elapsed()
		t.checkpoint = t.now()
	}
}

// TimeRemaining returns the seconds left on the timer. Never negative.
func (t *Timer) TimeRemaining() int64 {
	t.reconcile()
	return t.remain
}

// SetTimeRemaining overrides the remaining seconds, typically from a value
// reported by the cloud API. A value of zero or less completes the timer
// immediately; this is clamping, not an error. Assigning a positive value to
// a finished timer re-arms it in the paused state: resuming requires an
// explicit Start.
func (t *Timer) SetTimeRemaining(remaining int64) {
	if remaining <= 0 {
		t.End()
		return
	}
	t.reconcile()
	if t.status == TimerDone {
		t.status = TimerPaused
	}
	t.remain = remaining
	t.checkpoint = 0
	t.reconcile()
}

// Status returns the current lifecycle state without reconciling. Callers
// that need wall-clock accuracy should use Running, Paused or Done.
func (t *Timer) Status() TimerStatus {
	return t.status
}

// SetStatus transitions the timer to the requested state. Unrecognized
// values fail with ErrInvalidValue before any state is touched. Done is
// sticky: if the timer has already completed (or completes during the
// reconcile), the requested value is ignored and the timer ends.
func (t *Timer) SetStatus(status TimerStatus) error {
	switch status {
	case TimerActive, TimerPaused, TimerDone:
	default:
		return ierrors.WrapErrorf(ErrInvalidValue, "timer status %q", status)
	}
	t.reconcile()
	if status == TimerDone || t.status == TimerDone {
		t.End()
		return nil
	}
	if t.status == TimerPaused && status == TimerActive {
		t.checkpoint = t.now()
	}
	if t.status == TimerActive && status == TimerPaused {
		t.checkpoint = 0
	}
	t.status = status
	return nil
}

// Running reports whether the timer is actively counting down.
func (t *Timer) Running() bool {
	return t.TimeRemaining() > 0 && t.status == TimerActive
}

// Paused reports whether the timer is paused.
func (t *Timer) Paused() bool {
	return t.status == TimerPaused
}

// Done reports whether the timer has completed.
func (t *Timer) Done() bool {
	return t.TimeRemaining() <= 0 || t.status == TimerDone
}

// Start resumes a paused timer. It is a no-op in any other state.
func (t *Timer) Start() {
	if t.status != TimerPaused {
		return
	}
	t.checkpoint = t.now()
	// The status-write path handles the paused->active checkpoint rules.
	_ = t.SetStatus(TimerActive)
}

// End terminates the timer unconditionally. Idempotent.
func (t *Timer) End() {
	t.status = TimerDone
	t.remain = 0
	t.checkpoint = 0
}

// Pause suspends the countdown. A finished timer stays finished.
func (t *Timer) Pause() {
	t.reconcile()
	if t.status == TimerDone {
		return
	}
	_ = t.SetStatus(TimerPaused)
}

// Update applies an externally reported remaining time and/or status, e.g.
// from a getTimer API response. A nil timeRemaining leaves the remaining
// seconds untouched; an empty status leaves the state untouched. Calling
// with neither is a no-op.
func (t *Timer) Update(timeRemaining *int64, status TimerStatus) error {
	if timeRemaining != nil {
		t.SetTimeRemaining(*timeRemaining)
	}
	if status != "" {
		return t.SetStatus(status)
	}
	return nil
}
