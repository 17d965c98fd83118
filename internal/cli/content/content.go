package content

import (
	"fmt"
	"strings"

	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/models"
)

type ShowCmd struct {
	Day string `arg:"" optional:"" help:"Show only this day (rose, propose, ...)."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	cfg, err := ctx.Store.GetUserConfig(user.ID)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	days := models.AllDays()
	if c.Day != "" {
		d, err := parseDay(c.Day)
		if err != nil {
			return err
		}
		days = []models.Day{d}
	}

	schedule := ctx.Resolver.Schedule()
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		dc := models.ContentFor(cfg.Days, d)
		unlockAt := "-"
		if t, ok := schedule.UnlockAt(d); ok {
			unlockAt = t.Format(constants.DisplayTimeFormat)
		}
		question := ""
		if dc.CustomQuestion != "" {
			question = fmt.Sprintf("%s [%s / %s]", dc.CustomQuestion, or(dc.CustomAnswerYes, "YES"), or(dc.CustomAnswerNo, "NO"))
		}
		rows = append(rows, []string{d.Emoji() + " " + d.Title(), unlockAt, dc.Message, question})
	}

	fmt.Printf("Content for %s\n", user.PartnerName)
	fmt.Println(cli.RenderTable([]string{"Day", "Unlocks", "Message", "Custom question"}, rows))
	return nil
}

type SetCmd struct {
	Day      string `arg:"" help:"Day to edit."`
	Message  string `short:"m" help:"Message shown when the day opens."`
	Question string `short:"q" help:"Custom yes/no question for the day."`
	Yes      string `help:"Label for the custom question's yes answer."`
	No       string `help:"Label for the custom question's no answer."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	d, err := parseDay(c.Day)
	if err != nil {
		return err
	}
	patch := models.DayContent{
		Message:         strings.TrimSpace(c.Message),
		CustomQuestion:  strings.TrimSpace(c.Question),
		CustomAnswerYes: strings.TrimSpace(c.Yes),
		CustomAnswerNo:  strings.TrimSpace(c.No),
	}
	if patch == (models.DayContent{}) {
		return fmt.Errorf("nothing to change; pass --message, --question, --yes or --no")
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	if err := ctx.Store.UpdateDayContent(user.ID, d, patch); err != nil {
		return fmt.Errorf("failed to update %s: %w", d, err)
	}
	ctx.PerformAutomaticBackup()

	fmt.Printf("✓ Updated %s %s\n", d.Emoji(), d.Title())
	return nil
}

type StatusCmd struct {
	Mode string `arg:"" enum:"live,preview" help:"live gates days by the calendar; preview unlocks each day after a short countdown."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	live := c.Mode == "live"
	if err := ctx.Store.UpdateConfigStatus(user.ID, live); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if live {
		fmt.Println("✓ Your week is live. Days unlock at midnight on their date.")
	} else {
		fmt.Printf("✓ Your week is in preview. Each day opens after a %s countdown.\n", ctx.Resolver.Countdown())
	}
	return nil
}

func parseDay(s string) (models.Day, error) {
	d, ok := models.ParseDay(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return "", fmt.Errorf("unknown day %q", s)
	}
	return d, nil
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
