package models

import (
	"strconv"
	"time"
)

// Confession is one persisted summary of a partner's play-through of a day.
type Confession struct {
	ID   string `json:"id"`
	Date string `json:"date"` // RFC3339, UTC
	Day  Day    `json:"day"`
	Text string `json:"text"`
}

// ValentineConfig is the per-creator document: day copy, live flag and
// every confession collected so far.
type ValentineConfig struct {
	UserID      string             `json:"userId"`
	IsActive    bool               `json:"isActive"`
	Days        map[Day]DayContent `json:"days"`
	Confessions []Confession       `json:"confessions"`
}

// NewValentineConfig returns the config created alongside a new creator.
func NewValentineConfig(userID string) ValentineConfig {
	return ValentineConfig{
		UserID:      userID,
		IsActive:    false,
		Days:        DefaultContent(),
		Confessions: []Confession{},
	}
}

// NewConfessionID returns a millisecond timestamp id, used when the caller
// has no session id of its own.
func NewConfessionID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// SessionConfessionID is the id a viewer session saves day under. Each day
// gets its own id, so one session keeps one confession per day.
func SessionConfessionID(session string, day Day) string {
	return session + ":" + string(day)
}

// UpsertConfession removes any confession with the same id and day as c and
// appends c.
func UpsertConfession(list []Confession, c Confession) []Confession {
	out := make([]Confession, 0, len(list)+1)
	for _, existing := range list {
		if existing.ID != c.ID || existing.Day != c.Day {
			out = append(out, existing)
		}
	}
	return append(out, c)
}

// RemoveConfession drops the confession with id and reports whether one was found.
func RemoveConfession(list []Confession, id string) ([]Confession, bool) {
	out := make([]Confession, 0, len(list))
	found := false
	for _, c := range list {
		if c.ID == id {
			found = true
			continue
		}
		out = append(out, c)
	}
	return out, found
}

// GroupByDay buckets confessions by day, preserving their order.
func GroupByDay(list []Confession) map[Day][]Confession {
	out := make(map[Day][]Confession)
	for _, c := range list {
		out[c.Day] = append(out[c.Day], c)
	}
	return out
}
