package card

import (
	"math"
	"time"
)

const (
	revealDuration = 2 * time.Second
	revealFrame    = 16 * time.Millisecond
)

// Reveal models the score count-up: the shown value grows by a fixed step
// every frame until it reaches the target.
type Reveal struct {
	target int
	start  time.Time
	now    func() time.Time
}

// NewReveal starts a count-up to target at now(). A nil now uses time.Now.
func NewReveal(target int, now func() time.Time) *Reveal {
	if now == nil {
		now = time.Now
	}
	return &Reveal{target: target, start: now(), now: now}
}

// Target is the final value.
func (r *Reveal) Target() int { return r.target }

// Value is the currently shown value.
func (r *Reveal) Value() int {
	if r.target <= 0 {
		return r.target
	}
	frames := float64(r.now().Sub(r.start) / revealFrame)
	step := float64(r.target) / float64(revealDuration/revealFrame)
	v := frames * step
	if v >= float64(r.target) {
		return r.target
	}
	return int(math.Floor(v))
}

// Settled reports whether the shown value has reached the target.
func (r *Reveal) Settled() bool {
	return r.Value() == r.target
}

// Remaining is an upper bound on the time until Settled.
func (r *Reveal) Remaining() time.Duration {
	if r.Settled() {
		return 0
	}
	left := r.start.Add(revealDuration).Sub(r.now())
	if left < revealFrame {
		return revealFrame
	}
	return left
}
