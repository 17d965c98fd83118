package models

import (
	"testing"
	"time"

	"github.com/julianstephens/valweek/internal/constants"
)

func TestDay_Next(t *testing.T) {
	tests := []struct {
		day  Day
		want Day
	}{
		{DayWaiting, DayRose},
		{DayRose, DayPropose},
		{DayPropose, DayChocolate},
		{DayChocolate, DayTeddy},
		{DayTeddy, DayPromise},
		{DayPromise, DayHug},
		{DayHug, DayKiss},
		{DayKiss, DayValentine},
		{DayValentine, DayFinished},
		{DayFinished, DayFinished},
		{Day("bogus"), DayFinished},
	}

	for _, tt := range tests {
		t.Run(string(tt.day), func(t *testing.T) {
			if got := tt.day.Next(); got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDay_NextFollowsSequence(t *testing.T) {
	days := AllDays()
	for i := 0; i < len(days)-1; i++ {
		if got := days[i].Next(); got != days[i+1] {
			t.Errorf("%s.Next() = %q, want %q", days[i], got, days[i+1])
		}
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in     string
		want   Day
		wantOK bool
	}{
		{"rose", DayRose, true},
		{"finished", DayFinished, true},
		{"Rose", "", false},
		{"", "", false},
		{"monday", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDay(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseDay(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestThemedDays(t *testing.T) {
	themed := ThemedDays()
	if len(themed) != 8 {
		t.Fatalf("len(ThemedDays()) = %d, want 8", len(themed))
	}
	if themed[0] != DayRose || themed[7] != DayValentine {
		t.Errorf("ThemedDays() = %v, want rose..valentine", themed)
	}
}

func TestDefaultContent(t *testing.T) {
	content := DefaultContent()
	for _, d := range AllDays() {
		if content[d].Message == "" {
			t.Errorf("no default message for %s", d)
		}
	}

	// Mutating the returned map must not leak into later calls.
	content[DayRose] = DayContent{Message: "changed"}
	if DefaultContent()[DayRose].Message == "changed" {
		t.Error("DefaultContent() returned shared state")
	}
}

func TestContentFor(t *testing.T) {
	days := map[Day]DayContent{
		DayRose: {CustomQuestion: "Will you?"},
	}

	got := ContentFor(days, DayRose)
	if got.Message != DefaultContent()[DayRose].Message {
		t.Errorf("Message = %q, want default", got.Message)
	}
	if got.CustomQuestion != "Will you?" {
		t.Errorf("CustomQuestion = %q, want %q", got.CustomQuestion, "Will you?")
	}

	if got := ContentFor(nil, DayKiss); got.Message == "" {
		t.Error("ContentFor(nil, kiss) returned empty message")
	}
}

func TestUpsertConfession(t *testing.T) {
	var list []Confession
	list = UpsertConfession(list, Confession{ID: "s1", Day: DayRose, Text: "first"})
	list = UpsertConfession(list, Confession{ID: "s1", Day: DayRose, Text: "second"})

	if len(list) != 1 {
		t.Fatalf("same id: len = %d, want 1", len(list))
	}
	if list[0].Text != "second" {
		t.Errorf("same id: text = %q, want %q", list[0].Text, "second")
	}

	list = UpsertConfession(list, Confession{ID: "s2", Day: DayRose, Text: "third"})
	if len(list) != 2 {
		t.Errorf("different id: len = %d, want 2", len(list))
	}

	list = UpsertConfession(list, Confession{ID: "s1", Day: DayPropose, Text: "fourth"})
	if len(list) != 3 {
		t.Errorf("same id, different day: len = %d, want 3", len(list))
	}
}

func TestSessionConfessionID(t *testing.T) {
	rose := SessionConfessionID("s1", DayRose)
	if rose != "s1:rose" {
		t.Errorf("SessionConfessionID() = %q, want %q", rose, "s1:rose")
	}
	if rose == SessionConfessionID("s1", DayPropose) {
		t.Error("days of one session share an id")
	}
}

func TestRemoveConfession(t *testing.T) {
	list := []Confession{{ID: "a"}, {ID: "b"}}

	out, found := RemoveConfession(list, "a")
	if !found || len(out) != 1 || out[0].ID != "b" {
		t.Errorf("RemoveConfession(a) = (%v, %v)", out, found)
	}

	_, found = RemoveConfession(list, "zzz")
	if found {
		t.Error("RemoveConfession(zzz) reported found")
	}
}

func TestNewConfessionID(t *testing.T) {
	ts := time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)
	if got, want := NewConfessionID(ts), "1770422400000"; got != want {
		t.Errorf("NewConfessionID() = %q, want %q", got, want)
	}
}

func TestNewStats(t *testing.T) {
	tests := []struct {
		name                       string
		users, active, confessions int
		wantAvg                    float64
	}{
		{"no users", 0, 0, 5, 0},
		{"even", 4, 2, 8, 2},
		{"rounds to one decimal", 3, 1, 10, 3.3},
		{"rounds up", 3, 1, 5, 1.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStats(tt.users, tt.active, tt.confessions)
			if s.AvgConfessionsPerUser != tt.wantAvg {
				t.Errorf("AvgConfessionsPerUser = %v, want %v", s.AvgConfessionsPerUser, tt.wantAvg)
			}
		})
	}
}

func TestAdmin_HasPermission(t *testing.T) {
	super := Admin{Role: constants.RoleSuperAdmin}
	if !super.HasPermission(constants.PermManageUsers) {
		t.Error("super admin should have every permission")
	}

	mod := Admin{Role: constants.RoleModerator, Permissions: map[string]bool{constants.PermModerate: true}}
	if !mod.HasPermission(constants.PermModerate) {
		t.Error("moderator should have moderate permission")
	}
	if mod.HasPermission(constants.PermManageUsers) {
		t.Error("moderator should not have manage_users permission")
	}
}
