package unlock

import (
	"fmt"
	"time"
)

// Remaining is a countdown broken into display units.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// FormatRemaining splits d into whole days, hours, minutes and seconds.
// Sub-second remainders are dropped.
func FormatRemaining(d time.Duration) Remaining {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return Remaining{
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

func (r Remaining) String() string {
	if r.Days > 0 {
		return fmt.Sprintf("%dd %02dh %02dm %02ds", r.Days, r.Hours, r.Minutes, r.Seconds)
	}
	return fmt.Sprintf("%02dh %02dm %02ds", r.Hours, r.Minutes, r.Seconds)
}
