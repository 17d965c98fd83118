package unlock

import (
	"time"

	"github.com/julianstephens/valweek/internal/models"
)

// Schedule maps each calendar-gated day to the instant it unlocks in live
// mode. Days without an entry are never gated.
type Schedule map[models.Day]time.Time

// DefaultSchedule unlocks rose through valentine at midnight on February 7
// through 14 of year, in loc.
func DefaultSchedule(year int, loc *time.Location) Schedule {
	if loc == nil {
		loc = time.Local
	}
	s := make(Schedule, len(models.ThemedDays()))
	for i, d := range models.ThemedDays() {
		s[d] = time.Date(year, time.February, 7+i, 0, 0, 0, 0, loc)
	}
	return s
}

// UnlockAt returns the unlock instant for d, if it has one.
func (s Schedule) UnlockAt(d models.Day) (time.Time, bool) {
	t, ok := s[d]
	return t, ok
}
