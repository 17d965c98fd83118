package unlock

import (
	"time"

	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/utils"
)

// RouteQuery carries the partner link's query parameters.
type RouteQuery struct {
	Day     string
	NextDay bool
	SimDate string
}

// Route is the day a partner link lands on. Locked routes show the
// countdown for that day instead of its content.
type Route struct {
	Day    models.Day
	Locked bool
	// Date is the calendar date the route was resolved against.
	Date time.Time
}

// ResolveRoute picks the day for a partner link. A valid day parameter is a
// direct deep link; nextDay previews tomorrow behind a lock; otherwise the
// calendar decides. simDate, when parseable, replaces now.
func ResolveRoute(q RouteQuery, now time.Time) Route {
	date := now
	if q.SimDate != "" {
		if sim, err := utils.ParseSimDate(q.SimDate, now.Location()); err == nil {
			date = sim
		}
	}

	if d, ok := models.ParseDay(q.Day); ok {
		return Route{Day: d, Date: date}
	}
	if q.NextDay {
		return Route{Day: CurrentDay(date).Next(), Locked: true, Date: date}
	}
	return Route{Day: CurrentDay(date), Date: date}
}
