package materializer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

// Scheduler runs a Materializer once at start and then at every local midnight.
type Scheduler struct {
	mat   *Materializer
	loc   *time.Location
	log   zerolog.Logger
	now   func() time.Time
	after func(time.Duration) <-chan time.Time
	ticks chan<- Result
}

// Result reports one completed tick.
type Result struct {
	At      time.Time
	Created []domain.Transaction
	Err     error
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithTimer replaces time.After.
func WithTimer(after func(time.Duration) <-chan time.Time) SchedulerOption {
	return func(s *Scheduler) { s.after = after }
}

// WithResults sends every tick result to ch. Sends block.
func WithResults(ch chan<- Result) SchedulerOption {
	return func(s *Scheduler) { s.ticks = ch }
}

// NewScheduler creates a Scheduler for mat. A nil loc uses the materializer's location.
func NewScheduler(mat *Materializer, loc *time.Location, log zerolog.Logger, opts ...SchedulerOption) *Scheduler {
	if loc == nil {
		loc = mat.loc
	}
	s := &Scheduler{
		mat:   mat,
		loc:   loc,
		log:   log.With().Str("component", "scheduler").Logger(),
		now:   time.Now,
		after: time.After,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ticks immediately to catch up, then once per midnight until ctx is done.
// Tick failures are logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Msg("Scheduler started")
	s.tick(ctx, s.now())

	for {
		now := s.now()
		next := NextMidnight(now, s.loc)
		wait := next.Sub(now)
		s.log.Debug().Time("next_tick", next).Dur("wait", wait).Msg("Waiting for midnight")

		select {
		case <-ctx.Done():
			s.log.Info().Msg("Scheduler stopped")
			return nil
		case <-s.after(wait):
		}

		at := s.now()
		if at.Before(next) {
			at = next
		}
		s.tick(ctx, at)
	}
}

// TickNow runs one tick at the current time.
func (s *Scheduler) TickNow(ctx context.Context) ([]domain.Transaction, error) {
	return s.mat.Tick(ctx, s.now())
}

func (s *Scheduler) tick(ctx context.Context, at time.Time) {
	created, err := s.mat.Tick(ctx, at)
	if err != nil {
		s.log.Error().Err(err).Time("at", at).Msg("Materialization tick failed")
	} else {
		s.log.Info().Int("created", len(created)).Str("day", domain.FormatDay(domain.StartOfDay(at, s.loc))).Msg("Materialization tick finished")
	}
	if s.ticks != nil {
		select {
		case s.ticks <- Result{At: at, Created: created, Err: err}:
		case <-ctx.Done():
		}
	}
}

// NextMidnight returns the start of the day after t in loc.
func NextMidnight(t time.Time, loc *time.Location) time.Time {
	return domain.AddDays(domain.StartOfDay(t, loc), 1)
}
