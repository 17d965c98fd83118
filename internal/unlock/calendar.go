package unlock

import (
	"math"
	"time"

	"github.com/julianstephens/valweek/internal/models"
)

// CurrentDay returns the day the calendar shows on t: waiting before
// February 7, one themed day for each of February 7 through 14, finished after.
func CurrentDay(t time.Time) models.Day {
	switch {
	case t.Month() < time.February:
		return models.DayWaiting
	case t.Month() > time.February:
		return models.DayFinished
	case t.Day() < 7:
		return models.DayWaiting
	case t.Day() > 14:
		return models.DayFinished
	}
	return models.ThemedDays()[t.Day()-7]
}

// DaysLeft counts whole days, rounded up, from t to February 7 of t's year.
// It is zero once that date has been reached.
func DaysLeft(t time.Time) int {
	target := time.Date(t.Year(), time.February, 7, 0, 0, 0, 0, t.Location())
	if !t.Before(target) {
		return 0
	}
	return int(math.Ceil(target.Sub(t).Hours() / 24))
}
