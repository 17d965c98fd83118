package partner

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/confession"
	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/tui"
	"github.com/julianstephens/valweek/internal/unlock"
)

const previewBanner = "Preview mode is on for this session. Use --mode live to see the real calendar."

type ViewCmd struct {
	UserID     string `arg:"" help:"Creator id from the share link."`
	RouteFlags `embed:""`
}

func (c *ViewCmd) Run(ctx *cli.Context) error {
	v, err := c.resolve(ctx, c.UserID)
	if err != nil {
		return err
	}
	st := v.status(ctx.Context(), ctx.Resolver)
	d := v.day()

	title := lipgloss.NewStyle().Bold(true).Foreground(confession.ColorFor(d))
	fmt.Println(title.Render(fmt.Sprintf("%s %s for %s", d.Emoji(), d.Title(), v.user.PartnerName)))
	fmt.Printf("Date: %s", v.route.Date.Format(constants.DateFormat))
	if left := unlock.DaysLeft(v.route.Date); left > 0 {
		fmt.Printf(" · %d days to go", left)
	}
	if st.Preview {
		fmt.Print(" · preview")
	}
	fmt.Println()
	if v.preview.IsUserPreview(ctx.Context()) {
		fmt.Println(previewBanner)
	}

	if !st.Unlocked {
		fmt.Printf("🔒 Opens in %s\n", unlock.FormatRemaining(st.Remaining))
		if !st.UnlockAt.IsZero() {
			fmt.Printf("   at %s\n", st.UnlockAt.Format(constants.DisplayTimeFormat))
		}
		return nil
	}
	fmt.Println(v.content().Message)
	return nil
}

type CountdownCmd struct {
	UserID     string `arg:"" help:"Creator id from the share link."`
	Play       bool   `help:"Start the day's game once it opens."`
	RouteFlags `embed:""`

	prompt prompter
}

func (c *CountdownCmd) Run(ctx *cli.Context) error {
	v, err := c.resolve(ctx, c.UserID)
	if err != nil {
		return err
	}

	m, err := tui.Run(ctx.Context(), tui.Options{
		Day:         v.day(),
		PartnerName: v.user.PartnerName,
		Content:     v.content(),
		Status:      func(sctx context.Context) unlock.Status { return v.status(sctx, ctx.Resolver) },
	})
	if err != nil {
		return err
	}
	if !m.Opened() {
		return nil
	}

	fmt.Println(v.content().Message)
	if c.Play && v.day().IsThemed() {
		return playAndSave(ctx, v, c.RouteFlags.Session, c.prompt)
	}
	return nil
}
