package partner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/valweek/internal/cli/clitest"
	"github.com/julianstephens/valweek/internal/confession"
	"github.com/julianstephens/valweek/internal/models"
)

// scripted answers Choose calls from picks in order, then falls back to 0.
type scripted struct {
	picks []int
	many  []int
	input string
}

func (s *scripted) Choose(_ string, options []string) (int, error) {
	if len(s.picks) == 0 {
		return 0, nil
	}
	idx := s.picks[0]
	s.picks = s.picks[1:]
	if idx >= len(options) {
		idx = len(options) - 1
	}
	return idx, nil
}

func (s *scripted) ChooseMany(string, []string) ([]int, error) {
	return s.many, nil
}

func (s *scripted) Input(string, string) (string, error) {
	return s.input, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 2, 7, 10, 15, 0, 0, time.UTC)
}

func TestPlay_EveryDayDecodes(t *testing.T) {
	for _, d := range models.ThemedDays() {
		t.Run(string(d), func(t *testing.T) {
			p := &scripted{many: []int{0, 2}}
			in, err := play(p, d, models.ContentFor(nil, d), fixedNow)
			if err != nil {
				t.Fatalf("play() error = %v", err)
			}
			text, err := confession.Encode(in)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			parsed := confession.Decode(d, text)
			if parsed.IsRaw() {
				t.Errorf("Decode(%q) fell back to raw", text)
			}
		})
	}
}

func TestPlay_RoseRefusals(t *testing.T) {
	// Two refusals, then accept, then YES to every question.
	p := &scripted{picks: []int{1, 1, 0}}
	in, err := play(p, models.DayRose, models.DayContent{}, fixedNow)
	if err != nil {
		t.Fatalf("play() error = %v", err)
	}

	want := []string{
		"Permission Granted (10:15:00)",
		"Tried to say NO to Rose (Attempt 1) (10:15:00)",
		"Tried to say NO to Rose (Attempt 2) (10:15:00)",
		"Accepted Rose (10:15:00)",
		"Q1: YES (10:15:00)",
	}
	for i, w := range want {
		if in.Log[i] != w {
			t.Errorf("Log[%d] = %q, want %q", i, in.Log[i], w)
		}
	}
}

func TestPlay_ProposeGivesUpAfterMaxRefusals(t *testing.T) {
	picks := make([]int, 4) // all four quiz answers take the first option
	for i := 0; i < maxRefusals+2; i++ {
		picks = append(picks, 1)
	}
	in, err := play(&scripted{picks: picks}, models.DayPropose, models.DayContent{}, fixedNow)
	if err != nil {
		t.Fatalf("play() error = %v", err)
	}
	if len(in.Rejections) != maxRefusals {
		t.Errorf("len(Rejections) = %d, want %d", len(in.Rejections), maxRefusals)
	}
}

func TestPlay_CustomQuestion(t *testing.T) {
	content := models.DayContent{CustomQuestion: "Dinner tonight?", CustomAnswerYes: "Haan"}
	in, err := play(&scripted{}, models.DayHug, content, fixedNow)
	if err != nil {
		t.Fatalf("play() error = %v", err)
	}
	if got := in.Answers[len(in.Answers)-1]; got != "Haan" {
		t.Errorf("last answer = %q, want %q", got, "Haan")
	}
}

func TestPlay_ChocolateSweetness(t *testing.T) {
	in, err := play(&scripted{picks: []int{0, 1, 0}}, models.DayChocolate, models.DayContent{}, fixedNow)
	if err != nil {
		t.Fatalf("play() error = %v", err)
	}
	if in.Sweetness != 66 {
		t.Errorf("Sweetness = %d, want 66", in.Sweetness)
	}
}

func TestPlayCmd_Live(t *testing.T) {
	env := clitest.New(t)
	user := env.Login(t, "arjun", "Meera")
	if err := env.Store.UpdateConfigStatus(user.ID, true); err != nil {
		t.Fatalf("UpdateConfigStatus() error = %v", err)
	}

	cmd := &PlayCmd{UserID: user.ID, RouteFlags: RouteFlags{Day: "chocolate"}, prompt: &scripted{}}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("play chocolate failed: %v", err)
	}
	// Same session replays replace the earlier answer.
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	cfg, err := env.Store.GetUserConfig(user.ID)
	if err != nil {
		t.Fatalf("GetUserConfig() error = %v", err)
	}
	if len(cfg.Confessions) != 1 {
		t.Fatalf("len(Confessions) = %d, want 1", len(cfg.Confessions))
	}
	if c := cfg.Confessions[0]; c.ID != models.SessionConfessionID(defaultSession, models.DayChocolate) || c.Day != models.DayChocolate || !strings.HasPrefix(c.Text, "Chocolate Day Activity Log: ") {
		t.Errorf("confession = %+v", c)
	}

	// Another day from the same session is kept alongside.
	propose := &PlayCmd{UserID: user.ID, RouteFlags: RouteFlags{Day: "propose"}, prompt: &scripted{}}
	if err := propose.Run(env.Ctx); err != nil {
		t.Fatalf("play propose failed: %v", err)
	}
	cfg, _ = env.Store.GetUserConfig(user.ID)
	if len(cfg.Confessions) != 2 {
		t.Errorf("len(Confessions) after propose = %d, want 2", len(cfg.Confessions))
	}

	locked := &PlayCmd{UserID: user.ID, RouteFlags: RouteFlags{Day: "kiss"}, prompt: &scripted{}}
	if err := locked.Run(env.Ctx); err == nil || !strings.Contains(err.Error(), "locked") {
		t.Errorf("kiss on Feb 9: got %v, want locked error", err)
	}
}

func TestPlayCmd_PreviewCountdown(t *testing.T) {
	env := clitest.New(t)
	user := env.Login(t, "arjun", "Meera")

	cmd := &PlayCmd{UserID: user.ID, RouteFlags: RouteFlags{Day: "valentine", Session: "s1"}, prompt: &scripted{}}
	if err := cmd.Run(env.Ctx); err == nil {
		t.Fatal("first preview read should start the countdown, not open the day")
	}

	env.Clock.Advance(env.Ctx.Resolver.Countdown())
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("play after countdown failed: %v", err)
	}

	// Another session starts its own countdown.
	other := &PlayCmd{UserID: user.ID, RouteFlags: RouteFlags{Day: "valentine", Session: "s2"}, prompt: &scripted{}}
	if err := other.Run(env.Ctx); err == nil {
		t.Error("second session should still be counting down")
	}
}

func TestPlayCmd_RestartCountdown(t *testing.T) {
	env := clitest.New(t)
	user := env.Login(t, "arjun", "Meera")

	cmd := &PlayCmd{UserID: user.ID, RouteFlags: RouteFlags{Day: "rose"}, prompt: &scripted{}}
	if err := cmd.Run(env.Ctx); err == nil {
		t.Fatal("first preview read should start the countdown")
	}
	env.Clock.Advance(env.Ctx.Resolver.Countdown())
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("play after countdown failed: %v", err)
	}

	restart := &PlayCmd{UserID: user.ID, RouteFlags: RouteFlags{Day: "rose", Restart: true}, prompt: &scripted{}}
	if err := restart.Run(env.Ctx); err == nil {
		t.Error("--restart should lock the day behind a new countdown")
	}
}

func TestPlayCmd_ForcedDemoRestartsCountdown(t *testing.T) {
	env := clitest.New(t)
	user := env.Login(t, "arjun", "Meera")

	cmd := &PlayCmd{UserID: user.ID, RouteFlags: RouteFlags{Day: "rose"}, prompt: &scripted{}}
	_ = cmd.Run(env.Ctx)
	env.Clock.Advance(env.Ctx.Resolver.Countdown())
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("play after countdown failed: %v", err)
	}

	env.Clock.Advance(time.Second)
	if err := env.Ctx.Preview("admin").SetDemoMode(env.Ctx.Context(), true, env.Ctx.Now()); err != nil {
		t.Fatalf("SetDemoMode() error = %v", err)
	}
	if err := cmd.Run(env.Ctx); err == nil {
		t.Error("forcing demo should restart the partner's countdown")
	}
}

func TestPlayCmd_Errors(t *testing.T) {
	env := clitest.New(t)
	user := env.Login(t, "arjun", "Meera")

	if err := (&PlayCmd{UserID: "nobody"}).Run(env.Ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown creator: got %v, want ErrNotFound", err)
	}
	if err := (&PlayCmd{UserID: user.ID, RouteFlags: RouteFlags{Day: "waiting"}}).Run(env.Ctx); err == nil {
		t.Error("waiting day should have no game")
	}
}

func TestViewCmd(t *testing.T) {
	env := clitest.New(t)
	user := env.Login(t, "arjun", "Meera")

	tests := []struct {
		name  string
		flags RouteFlags
	}{
		{"calendar day", RouteFlags{}},
		{"deep link", RouteFlags{Day: "rose"}},
		{"next day", RouteFlags{NextDay: true}},
		{"sim date", RouteFlags{SimDate: "2026-02-14"}},
		{"demo mode", RouteFlags{Mode: "demo", Session: "v1"}},
		{"legacy demo", RouteFlags{Demo: true, Session: "v2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := (&ViewCmd{UserID: user.ID, RouteFlags: tt.flags}).Run(env.Ctx); err != nil {
				t.Errorf("view failed: %v", err)
			}
		})
	}
}

func TestVisitStatus_NextDayStaysLocked(t *testing.T) {
	env := clitest.New(t)
	user := env.Login(t, "arjun", "Meera")
	if err := env.Store.UpdateConfigStatus(user.ID, true); err != nil {
		t.Fatalf("UpdateConfigStatus() error = %v", err)
	}

	v, err := RouteFlags{NextDay: true}.resolve(env.Ctx, user.ID)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if v.day() != models.DayTeddy {
		t.Errorf("next day on Feb 9 = %s, want teddy", v.day())
	}

	env.Clock.Advance(48 * time.Hour)
	if st := v.status(env.Ctx.Context(), env.Ctx.Resolver); st.Unlocked {
		t.Error("next-day route must stay locked")
	}
}
