package models

// Day identifies one stage of the week. The zero value is not a valid day.
type Day string

const (
	DayWaiting   Day = "waiting"
	DayRose      Day = "rose"
	DayPropose   Day = "propose"
	DayChocolate Day = "chocolate"
	DayTeddy     Day = "teddy"
	DayPromise   Day = "promise"
	DayHug       Day = "hug"
	DayKiss      Day = "kiss"
	DayValentine Day = "valentine"
	DayFinished  Day = "finished"
)

var allDays = []Day{
	DayWaiting,
	DayRose,
	DayPropose,
	DayChocolate,
	DayTeddy,
	DayPromise,
	DayHug,
	DayKiss,
	DayValentine,
	DayFinished,
}

// AllDays returns every day in sequence order, waiting first and finished last.
func AllDays() []Day {
	out := make([]Day, len(allDays))
	copy(out, allDays)
	return out
}

// ThemedDays returns rose through valentine, the days that carry a mini-game.
func ThemedDays() []Day {
	out := make([]Day, 0, len(allDays)-2)
	for _, d := range allDays {
		if d.IsThemed() {
			out = append(out, d)
		}
	}
	return out
}

// ParseDay returns the Day for s and whether s names a known day.
func ParseDay(s string) (Day, bool) {
	for _, d := range allDays {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// Valid reports whether d is one of the ten known days.
func (d Day) Valid() bool {
	_, ok := ParseDay(string(d))
	return ok
}

// IsThemed reports whether d is one of the eight gated days.
func (d Day) IsThemed() bool {
	return d.Valid() && d != DayWaiting && d != DayFinished
}

// Index returns the position of d in the sequence, or -1.
func (d Day) Index() int {
	for i, v := range allDays {
		if v == d {
			return i
		}
	}
	return -1
}

// Next returns the successor of d. Finished is terminal, and unknown
// values also resolve to finished.
func (d Day) Next() Day {
	switch d {
	case DayWaiting:
		return DayRose
	case DayRose:
		return DayPropose
	case DayPropose:
		return DayChocolate
	case DayChocolate:
		return DayTeddy
	case DayTeddy:
		return DayPromise
	case DayPromise:
		return DayHug
	case DayHug:
		return DayKiss
	case DayKiss:
		return DayValentine
	default:
		return DayFinished
	}
}

func (d Day) Title() string {
	switch d {
	case DayWaiting:
		return "Coming Soon"
	case DayRose:
		return "Rose Day"
	case DayPropose:
		return "Propose Day"
	case DayChocolate:
		return "Chocolate Day"
	case DayTeddy:
		return "Teddy Day"
	case DayPromise:
		return "Promise Day"
	case DayHug:
		return "Hug Day"
	case DayKiss:
		return "Kiss Day"
	case DayValentine:
		return "Valentine's Day"
	case DayFinished:
		return "Forever"
	default:
		return string(d)
	}
}

func (d Day) Emoji() string {
	switch d {
	case DayWaiting:
		return "⏳"
	case DayRose:
		return "🌹"
	case DayPropose:
		return "💍"
	case DayChocolate:
		return "🍫"
	case DayTeddy:
		return "🧸"
	case DayPromise:
		return "🤝"
	case DayHug:
		return "🤗"
	case DayKiss:
		return "💋"
	case DayValentine:
		return "❤️"
	case DayFinished:
		return "✨"
	default:
		return "•"
	}
}

func (d Day) String() string {
	return string(d)
}
