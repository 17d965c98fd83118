package unlock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/valweek/internal/kv"
	"github.com/julianstephens/valweek/internal/models"
)

var start = time.Date(2026, time.January, 20, 12, 0, 0, 0, time.UTC)

func newTestResolver(t *testing.T) (*Resolver, *ManualClock, *PreviewContext) {
	t.Helper()
	clock := NewManualClock(start)
	r := NewResolver(clock, DefaultSchedule(2026, time.UTC), 10*time.Second)
	p := NewPreviewContext("s1", kv.NewMemory(), nil)
	return r, clock, p
}

// failingStore errors on every call.
type failingStore struct{}

var errDown = errors.New("down")

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errDown
}

func (failingStore) Set(context.Context, string, string) error {
	return errDown
}

func (failingStore) SetIfAbsent(context.Context, string, string) (string, bool, error) {
	return "", false, errDown
}

func (failingStore) Delete(context.Context, string) error {
	return errDown
}

func (failingStore) Close() error {
	return nil
}

func TestResolver_AlwaysUnlockedDays(t *testing.T) {
	r, _, p := newTestResolver(t)
	ctx := context.Background()

	for _, day := range []models.Day{models.DayWaiting, models.DayFinished} {
		for _, active := range []bool{true, false} {
			if !r.IsDayUnlocked(ctx, p, day, active) {
				t.Errorf("IsDayUnlocked(%s, %v) = false, want true", day, active)
			}
			if got := r.TimeUntilUnlock(ctx, p, day, active); got != 0 {
				t.Errorf("TimeUntilUnlock(%s, %v) = %v, want 0", day, active, got)
			}
		}
	}
}

func TestResolver_PreviewCountdown(t *testing.T) {
	r, clock, p := newTestResolver(t)
	ctx := context.Background()

	steps := []struct {
		advance time.Duration
		want    bool
	}{
		{0, false},
		{5 * time.Second, false},
		{4*time.Second + 999*time.Millisecond, false},
		{time.Millisecond, true},
		{time.Hour, true},
	}

	for i, step := range steps {
		clock.Advance(step.advance)
		if got := r.IsDayUnlocked(ctx, p, models.DayRose, false); got != step.want {
			t.Errorf("step %d: IsDayUnlocked(rose, false) = %v, want %v", i, got, step.want)
		}
	}
}

func TestResolver_PreviewDaysUnlockTogether(t *testing.T) {
	r, clock, p := newTestResolver(t)
	ctx := context.Background()

	r.IsDayUnlocked(ctx, p, models.DayRose, false)
	clock.Advance(10 * time.Second)

	if !r.IsDayUnlocked(ctx, p, models.DayRose, false) {
		t.Fatal("rose should be unlocked after the countdown")
	}
	for _, day := range models.ThemedDays() {
		if !r.IsDayUnlocked(ctx, p, day, false) {
			t.Errorf("IsDayUnlocked(%s, false) = false, want true", day)
		}
	}
}

func TestResolver_TimeUntilUnlockInitializesTimer(t *testing.T) {
	r, clock, p := newTestResolver(t)
	ctx := context.Background()

	if got := r.TimeUntilUnlock(ctx, p, models.DayKiss, false); got != 10*time.Second {
		t.Errorf("first TimeUntilUnlock = %v, want 10s", got)
	}

	clock.Advance(3 * time.Second)
	if got := r.TimeUntilUnlock(ctx, p, models.DayKiss, false); got != 7*time.Second {
		t.Errorf("TimeUntilUnlock after 3s = %v, want 7s", got)
	}
	if r.IsDayUnlocked(ctx, p, models.DayHug, false) {
		t.Error("IsDayUnlocked after 3s = true, want false")
	}

	clock.Advance(20 * time.Second)
	if got := r.TimeUntilUnlock(ctx, p, models.DayKiss, false); got != 0 {
		t.Errorf("TimeUntilUnlock after 23s = %v, want 0", got)
	}
}

func TestResolver_ConcurrentFirstReadsShareBaseline(t *testing.T) {
	r, clock, _ := newTestResolver(t)
	store := kv.NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := NewPreviewContext("shared", store, nil)
			if got := r.TimeUntilUnlock(ctx, p, models.DayRose, false); got != 10*time.Second {
				t.Errorf("TimeUntilUnlock = %v, want 10s", got)
			}
		}()
	}
	wg.Wait()

	v, ok, _ := store.Get(ctx, "session:shared:demo_start_time")
	if !ok || v != formatMillis(start) {
		t.Errorf("demo start = (%q, %v), want (%q, true)", v, ok, formatMillis(start))
	}

	clock.Advance(10 * time.Second)
	if !r.IsDayUnlocked(ctx, NewPreviewContext("shared", store, nil), models.DayRose, false) {
		t.Error("shared session should unlock after 10s")
	}
}

func TestResolver_SessionsAreIndependent(t *testing.T) {
	r, clock, _ := newTestResolver(t)
	store := kv.NewMemory()
	ctx := context.Background()

	a := NewPreviewContext("a", store, nil)
	b := NewPreviewContext("b", store, nil)

	r.IsDayUnlocked(ctx, a, models.DayRose, false)
	clock.Advance(10 * time.Second)
	r.IsDayUnlocked(ctx, b, models.DayRose, false)

	if !r.IsDayUnlocked(ctx, a, models.DayRose, false) {
		t.Error("session a should be unlocked")
	}
	if r.IsDayUnlocked(ctx, b, models.DayRose, false) {
		t.Error("session b should still be counting down")
	}
}

func TestResolver_LiveBoundary(t *testing.T) {
	r, clock, p := newTestResolver(t)
	ctx := context.Background()

	clock.Set(time.Date(2026, time.February, 6, 23, 59, 59, 0, time.UTC))
	if r.IsDayUnlocked(ctx, p, models.DayRose, true) {
		t.Error("rose unlocked one second early")
	}
	if got := r.TimeUntilUnlock(ctx, p, models.DayRose, true); got != time.Second {
		t.Errorf("TimeUntilUnlock = %v, want 1s", got)
	}

	clock.Set(time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC))
	if !r.IsDayUnlocked(ctx, p, models.DayRose, true) {
		t.Error("rose locked at its unlock instant")
	}
	if r.IsDayUnlocked(ctx, p, models.DayPropose, true) {
		t.Error("propose unlocked a day early")
	}

	clock.Set(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	if got := r.TimeUntilUnlock(ctx, p, models.DayValentine, true); got != 0 {
		t.Errorf("TimeUntilUnlock after the week = %v, want 0", got)
	}
}

func TestResolver_MissingScheduleEntryIsUnlocked(t *testing.T) {
	clock := NewManualClock(start)
	r := NewResolver(clock, Schedule{}, 0)
	ctx := context.Background()

	if !r.IsDayUnlocked(ctx, nil, models.DayTeddy, true) {
		t.Error("day without schedule entry should be unlocked")
	}
	if got := r.TimeUntilUnlock(ctx, nil, models.DayTeddy, true); got != 0 {
		t.Errorf("TimeUntilUnlock = %v, want 0", got)
	}
	if r.Countdown() != 10*time.Second {
		t.Errorf("Countdown() = %v, want default 10s", r.Countdown())
	}
}

func TestResolver_StoreFailureKeepsDayLocked(t *testing.T) {
	r, clock, _ := newTestResolver(t)
	p := NewPreviewContext("s1", failingStore{}, nil)
	ctx := context.Background()

	clock.Advance(time.Hour)
	st := r.Status(ctx, p, models.DayRose, false)
	if st.Unlocked || st.Remaining != 10*time.Second {
		t.Errorf("Status() = %+v, want locked with full countdown", st)
	}
}

func TestResolver_NilPreviewContext(t *testing.T) {
	r, _, _ := newTestResolver(t)
	st := r.Status(context.Background(), nil, models.DayRose, false)
	if st.Unlocked || st.Remaining != 10*time.Second || !st.Preview {
		t.Errorf("Status() = %+v, want locked preview with full countdown", st)
	}
}

func TestDefaultSchedule(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	s := DefaultSchedule(2026, ist)

	if len(s) != 8 {
		t.Fatalf("len(schedule) = %d, want 8", len(s))
	}
	want := time.Date(2026, time.February, 14, 0, 0, 0, 0, ist)
	if got, _ := s.UnlockAt(models.DayValentine); !got.Equal(want) {
		t.Errorf("UnlockAt(valentine) = %v, want %v", got, want)
	}
	if _, ok := s.UnlockAt(models.DayWaiting); ok {
		t.Error("waiting should have no schedule entry")
	}
}
