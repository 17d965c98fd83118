package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/confession"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/unlock"
	"github.com/julianstephens/valweek/internal/utils"
)

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	cfg, err := ctx.Store.GetUserConfig(user.ID)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	now := ctx.Now()
	today := unlock.CurrentDay(now)
	status := "preview"
	if cfg.IsActive {
		status = "live"
	}

	fmt.Printf("💌 %s's Valentine Week for %s\n", user.Username, user.PartnerName)
	fmt.Printf("Status: %s · Today: %s %s", status, today.Emoji(), today.Title())
	if left := unlock.DaysLeft(now); left > 0 {
		fmt.Printf(" · %d days to Rose Day", left)
	}
	fmt.Println()
	fmt.Println()

	byDay := models.GroupByDay(cfg.Confessions)
	rows := make([][]string, 0, len(models.ThemedDays()))
	for _, d := range models.ThemedDays() {
		// Always the calendar view; preview countdowns belong to each viewer.
		st := ctx.Resolver.Status(ctx.Context(), nil, d, true)
		state := "🔓 open"
		if !st.Unlocked {
			state = "🔒 " + unlock.FormatRemaining(st.Remaining).String()
		}
		latest := ""
		if list := byDay[d]; len(list) > 0 {
			latest = confession.Summary(confession.Decode(d, list[len(list)-1].Text))
		}
		rows = append(rows, []string{d.Emoji() + " " + d.Title(), state, strconv.Itoa(len(byDay[d])), latest})
	}
	fmt.Println(cli.RenderTable([]string{"Day", "Calendar", "Replies", "Latest"}, rows, cli.AlignLeft, cli.AlignLeft, cli.AlignRight))
	fmt.Printf("\nShare: %s\n", ctx.ShareLink(user.ID, today))
	return nil
}

type ConfessionsCmd struct {
	Day string `arg:"" optional:"" help:"Only show replies for this day."`
	Raw bool   `help:"Print the stored text instead of decoding it."`
}

func (c *ConfessionsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	cfg, err := ctx.Store.GetUserConfig(user.ID)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var filter models.Day
	if c.Day != "" {
		d, ok := models.ParseDay(strings.ToLower(c.Day))
		if !ok {
			return fmt.Errorf("unknown day %q", c.Day)
		}
		filter = d
	}

	loc, err := ctx.Config.Location()
	if err != nil {
		return err
	}

	shown := 0
	for _, conf := range cfg.Confessions {
		if filter != "" && conf.Day != filter {
			continue
		}
		shown++
		fmt.Printf("%s · %s\n", conf.Day.Title(), utils.FormatDisplay(conf.Date, loc))
		if c.Raw {
			fmt.Println(conf.Text)
		} else {
			fmt.Println(confession.Render(confession.Decode(conf.Day, conf.Text)))
		}
		fmt.Println()
	}

	if shown == 0 {
		fmt.Printf("No replies from %s yet.\n", user.PartnerName)
	}
	return nil
}

type LinksCmd struct{}

func (c *LinksCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(models.ThemedDays()))
	for _, d := range models.ThemedDays() {
		rows = append(rows, []string{d.Emoji() + " " + d.Title(), ctx.ShareLink(user.ID, d)})
	}
	fmt.Println(cli.RenderTable([]string{"Day", "Link"}, rows))
	return nil
}
