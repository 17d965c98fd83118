// Package unlock decides whether a day is visible yet. Live sessions follow
// the calendar schedule; preview sessions follow a short countdown shared by
// every day of the session.
package unlock

import (
	"context"
	"time"

	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/logger"
	"github.com/julianstephens/valweek/internal/models"
)

// Resolver answers unlock queries. It holds no per-session state of its own
// and is safe for concurrent use.
type Resolver struct {
	clock     Clock
	schedule  Schedule
	countdown time.Duration
}

// NewResolver returns a Resolver. A non-positive countdown uses the default
// demo countdown.
func NewResolver(clock Clock, schedule Schedule, countdown time.Duration) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	if countdown <= 0 {
		countdown = constants.DefaultDemoCountdown
	}
	return &Resolver{
		clock:     clock,
		schedule:  schedule,
		countdown: countdown,
	}
}

func (r *Resolver) Clock() Clock {
	return r.clock
}

func (r *Resolver) Schedule() Schedule {
	return r.schedule
}

func (r *Resolver) Countdown() time.Duration {
	return r.countdown
}

// Status is the outcome of one unlock query.
type Status struct {
	Day       models.Day
	Unlocked  bool
	Remaining time.Duration
	Preview   bool
	// UnlockAt is set in live mode for scheduled days.
	UnlockAt time.Time
}

// IsDayUnlocked reports whether day is visible now.
func (r *Resolver) IsDayUnlocked(ctx context.Context, p *PreviewContext, day models.Day, isActive bool) bool {
	return r.Status(ctx, p, day, isActive).Unlocked
}

// TimeUntilUnlock returns how long until day becomes visible, never negative.
func (r *Resolver) TimeUntilUnlock(ctx context.Context, p *PreviewContext, day models.Day, isActive bool) time.Duration {
	return r.Status(ctx, p, day, isActive).Remaining
}

// Status resolves day for one session. In preview mode the first read of the
// session's timer starts it, and that read reports the full countdown.
func (r *Resolver) Status(ctx context.Context, p *PreviewContext, day models.Day, isActive bool) Status {
	st := Status{Day: day, Preview: !isActive}

	switch day {
	case models.DayWaiting, models.DayFinished:
		st.Unlocked = true
		return st
	}

	now := r.clock.Now()
	if !isActive {
		return r.previewStatus(ctx, p, st, now)
	}

	at, ok := r.schedule.UnlockAt(day)
	if !ok {
		st.Unlocked = true
		return st
	}
	st.UnlockAt = at
	st.Unlocked = !now.Before(at)
	st.Remaining = clamp(at.Sub(now))
	return st
}

func (r *Resolver) previewStatus(ctx context.Context, p *PreviewContext, st Status, now time.Time) Status {
	if p == nil {
		st.Remaining = r.countdown
		return st
	}

	start, created, err := p.DemoStart(ctx, now)
	if err != nil {
		logger.Warn("Demo timer unavailable, treating as just started", "session", p.SessionID(), "error", err)
		st.Remaining = r.countdown
		return st
	}
	if created {
		st.Remaining = r.countdown
		return st
	}

	elapsed := now.Sub(start)
	st.Unlocked = elapsed >= r.countdown
	st.Remaining = clamp(r.countdown - elapsed)
	return st
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
