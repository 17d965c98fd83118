package partner

import (
	"fmt"
	"time"

	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/confession"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/quiz"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/unlock"
	"github.com/julianstephens/valweek/internal/utils"
)

// Refusals allowed before the rose and the proposal are taken as a yes.
const maxRefusals = 3

var kissCounts = []int{1, 10, 100, 1000}

// prompter asks the partner questions. The default uses huh forms.
type prompter interface {
	Choose(title string, options []string) (int, error)
	ChooseMany(title string, options []string) ([]int, error)
	Input(title, placeholder string) (string, error)
}

type huhPrompter struct{}

func (huhPrompter) Choose(title string, options []string) (int, error) {
	return cli.Choose(title, options)
}

func (huhPrompter) ChooseMany(title string, options []string) ([]int, error) {
	return cli.ChooseMany(title, options)
}

func (huhPrompter) Input(title, placeholder string) (string, error) {
	return cli.Input(title, placeholder)
}

type PlayCmd struct {
	UserID     string `arg:"" help:"Creator id from the share link."`
	RouteFlags `embed:""`

	prompt prompter
}

func (c *PlayCmd) Run(ctx *cli.Context) error {
	v, err := c.resolve(ctx, c.UserID)
	if err != nil {
		return err
	}
	if !v.day().IsThemed() {
		return fmt.Errorf("%s has no game", v.day().Title())
	}
	if st := v.status(ctx.Context(), ctx.Resolver); !st.Unlocked {
		return fmt.Errorf("%s is still locked, opens in %s", v.day().Title(), unlock.FormatRemaining(st.Remaining))
	}
	return playAndSave(ctx, v, c.Session, c.prompt)
}

// playAndSave runs the day's game and stores the result under the session's
// id for that day, so replaying a day from the same session replaces the
// earlier answer.
func playAndSave(ctx *cli.Context, v *visit, session string, p prompter) error {
	if p == nil {
		p = huhPrompter{}
	}
	if session == "" {
		session = defaultSession
	}

	in, err := play(p, v.day(), v.content(), ctx.Now)
	if err != nil {
		return err
	}
	text, err := confession.Encode(in)
	if err != nil {
		return err
	}

	c := models.Confession{
		ID:   models.SessionConfessionID(session, v.day()),
		Date: utils.FormatTimestamp(ctx.Now()),
		Day:  v.day(),
		Text: text,
	}
	// A failed save must not spoil the moment; it is logged instead.
	storage.SaveConfessionQuietly(ctx.Store, v.user.ID, c)

	fmt.Println(confession.Render(confession.Decode(c.Day, c.Text)))
	return nil
}

// play asks the day's questions and builds the interaction to encode.
func play(p prompter, d models.Day, content models.DayContent, now func() time.Time) (confession.Interaction, error) {
	in := confession.Interaction{Day: d}

	questions := quiz.ForDay(d)
	if q, ok := quiz.Custom(content); ok {
		questions = append(questions, q)
	}

	var log confession.RoseLog
	if d == models.DayRose {
		log.PermissionGranted(now())
		refused, err := refuse(p, "Will you accept this rose? 🌹", "Accept 🌹")
		if err != nil {
			return in, err
		}
		for i := 1; i <= refused; i++ {
			log.Refused(i, now())
		}
		log.Accepted(now())
	}

	yes := 0
	for _, q := range questions {
		idx, err := p.Choose(q.Prompt, q.Options[:])
		if err != nil {
			return in, err
		}
		if idx == 0 {
			yes++
		}
		in.Answers = append(in.Answers, q.Options[idx])
		if d == models.DayRose {
			log.Answer(q.Options[idx], now())
		}
	}

	switch d {
	case models.DayRose:
		in.Log = log.Entries()
	case models.DayPropose:
		refused, err := refuse(p, "Will you be mine? 💍", "YES 💍")
		if err != nil {
			return in, err
		}
		for i := 1; i <= refused; i++ {
			in.Rejections = append(in.Rejections, fmt.Sprintf("Rejected Proposal (Attempt %d)", i))
		}
	case models.DayChocolate:
		if len(questions) > 0 {
			in.Sweetness = yes * 100 / len(questions)
		}
	case models.DayTeddy:
		idx, err := p.Choose("Pick your teddy 🧸", labels(quiz.Teddies))
		if err != nil {
			return in, err
		}
		in.Teddy = quiz.Teddies[idx].Name
	case models.DayPromise:
		picked, err := p.ChooseMany("Which promises do you want? 🤝", quiz.Promises)
		if err != nil {
			return in, err
		}
		for _, i := range picked {
			in.Promises = append(in.Promises, quiz.Promises[i])
		}
	case models.DayHug:
		idx, err := p.Choose("Which hug? 🤗", labels(quiz.Hugs))
		if err != nil {
			return in, err
		}
		in.Hug = quiz.Hugs[idx].Name
	case models.DayKiss:
		opts := make([]string, len(kissCounts))
		for i, n := range kissCounts {
			opts[i] = fmt.Sprintf("%d 😘", n)
		}
		idx, err := p.Choose("How many kisses? 💋", opts)
		if err != nil {
			return in, err
		}
		in.Kisses = kissCounts[idx]
	case models.DayValentine:
		qs := make([]string, len(quiz.Proposals))
		for i, pr := range quiz.Proposals {
			qs[i] = pr.Question
		}
		idx, err := p.Choose("One last question ❤️", qs)
		if err != nil {
			return in, err
		}
		final, err := p.Input("Anything you want to say?", quiz.Proposals[idx].Answer)
		if err != nil {
			return in, err
		}
		if final == "" {
			final = quiz.Proposals[idx].FinalDecision()
		}
		in.FinalText = final
	}
	return in, nil
}

// refuse asks title until the first option is picked or maxRefusals is
// reached, and returns how many times the partner said no.
func refuse(p prompter, title, accept string) (int, error) {
	refused := 0
	for refused < maxRefusals {
		idx, err := p.Choose(title, []string{accept, "NO"})
		if err != nil {
			return refused, err
		}
		if idx == 0 {
			break
		}
		refused++
	}
	return refused, nil
}

func labels(choices []quiz.Choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Label()
	}
	return out
}
