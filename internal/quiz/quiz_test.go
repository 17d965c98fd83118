package quiz

import (
	"testing"

	"github.com/julianstephens/valweek/internal/models"
)

func TestForDay(t *testing.T) {
	for _, d := range models.ThemedDays() {
		if len(ForDay(d)) == 0 {
			t.Errorf("ForDay(%s) returned no questions", d)
		}
	}
	if ForDay(models.DayWaiting) != nil {
		t.Error("ForDay(waiting) should be nil")
	}

	qs := ForDay(models.DayHug)
	qs[0].Prompt = "changed"
	if ForDay(models.DayHug)[0].Prompt == "changed" {
		t.Error("ForDay() returned shared state")
	}
}

func TestCustom(t *testing.T) {
	if _, ok := Custom(models.DayContent{}); ok {
		t.Error("Custom() without a question should report false")
	}

	q, ok := Custom(models.DayContent{CustomQuestion: "Pizza?", CustomAnswerNo: "Pasta"})
	if !ok {
		t.Fatal("Custom() = false, want true")
	}
	if q.Options[0] != DefaultOptions[0] || q.Options[1] != "Pasta" {
		t.Errorf("Options = %v, want [%q %q]", q.Options, DefaultOptions[0], "Pasta")
	}
}

func TestProposal_FinalDecision(t *testing.T) {
	got := Proposals[1].FinalDecision()
	want := "Accepted Proposal: Kitna pyaar karte ho? 🌏 -> Zameen se aasmaan tak, aur usse bhi aage. ✨"
	if got != want {
		t.Errorf("FinalDecision() = %q, want %q", got, want)
	}
}
