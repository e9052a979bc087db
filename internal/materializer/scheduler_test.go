package materializer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

// fakeClock advances instantly to whatever the scheduler waits for.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

func TestNextMidnight(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	got := NextMidnight(time.Date(2026, 3, 7, 22, 0, 0, 0, ny), ny)
	want := time.Date(2026, 3, 8, 0, 0, 0, 0, ny)
	if !got.Equal(want) {
		t.Errorf("NextMidnight() = %v, want %v", got, want)
	}
}

func TestSchedulerRunsAtStartAndEveryMidnight(t *testing.T) {
	l := openLedger(t, weeklyRent(nil))
	m := New(l, ModeInterval, time.UTC, discard)

	clock := &fakeClock{now: day(1, 3).Add(15 * time.Hour)}
	results := make(chan Result)
	s := NewScheduler(m, time.UTC, discard, WithClock(clock.Now), WithTimer(clock.After), WithResults(results))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var got []Result
	for len(got) < 20 {
		got = append(got, <-results)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !got[0].At.Equal(day(1, 3).Add(15 * time.Hour)) {
		t.Errorf("first tick at %v, want start time", got[0].At)
	}
	for i, r := range got[1:] {
		want := day(1, 4).AddDate(0, 0, i)
		if !r.At.Equal(want) {
			t.Fatalf("tick %d at %v, want %v", i+1, r.At, want)
		}
	}

	created := map[string]int{}
	for _, r := range got {
		if r.Err != nil {
			t.Errorf("tick at %v failed: %v", r.At, r.Err)
		}
		for _, c := range r.Created {
			created[domain.FormatDay(c.Date)] = int(r.At.Sub(day(1, 3)).Hours() / 24)
		}
	}
	// Jan 8 is day 5 after Jan 3, Jan 15 day 12, Jan 22 day 19.
	want := map[string]int{"2026-01-08": 5, "2026-01-15": 12, "2026-01-22": 19}
	for d, tickDay := range want {
		if created[d] != tickDay {
			t.Errorf("%s materialized on tick day %d, want %d", d, created[d], tickDay)
		}
	}
	if len(created) != len(want) {
		t.Errorf("materialized %v, want %v", created, want)
	}
}

func TestSchedulerTickNow(t *testing.T) {
	l := openLedger(t, weeklyRent(nil))
	m := New(l, ModeInterval, time.UTC, discard)
	s := NewScheduler(m, nil, discard, WithClock(func() time.Time { return day(1, 9) }))

	created, err := s.TickNow(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 1 || !created[0].Date.Equal(day(1, 8)) {
		t.Errorf("TickNow() = %v, want [2026-01-08]", dates(created))
	}
}
