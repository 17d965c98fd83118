// Package console holds the admin commands: accounts, moderation, analytics
// and the global preview override.
package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/valweek/internal/admin"
	"github.com/julianstephens/valweek/internal/auth"
	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/confession"
	"github.com/julianstephens/valweek/internal/keyring"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/unlock"
	"github.com/julianstephens/valweek/internal/utils"
)

const adminSession = "admin"

type LoginCmd struct {
	Username string `arg:"" optional:"" help:"Admin username."`
	Password string `help:"Password. Prompted for when omitted."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	err := cli.PromptMissing([]cli.PromptField{
		{Title: "Username", Value: &c.Username},
		{Title: "Password", Value: &c.Password, Secret: true},
	})
	if err != nil {
		return err
	}

	a, err := ctx.Auth.LoginAdmin(c.Username, c.Password)
	if err != nil {
		return err
	}
	if err := saveSession(ctx, a); err != nil {
		return err
	}
	fmt.Printf("✓ Logged in as %s (%s)\n", a.Username, a.Role)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.ClearSession(keyring.AdminSession); err != nil {
		return err
	}
	fmt.Println("✓ Logged out of the admin console")
	return nil
}

type CreateCmd struct {
	Username string `arg:"" optional:"" help:"Username for the new admin."`
	Email    string `help:"Contact email."`
	Password string `help:"Password, at least 8 characters. Prompted for when omitted."`
	Role     string `enum:"admin,super_admin,moderator" default:"admin" help:"Role for the new admin. The first admin is always super_admin."`
}

func (c *CreateCmd) Run(ctx *cli.Context) error {
	err := cli.PromptMissing([]cli.PromptField{
		{Title: "Username", Value: &c.Username},
		{Title: "Password", Value: &c.Password, Secret: true},
	})
	if err != nil {
		return err
	}
	in := auth.AdminInput{Username: c.Username, Email: c.Email, Password: c.Password, Role: c.Role}

	n, err := ctx.Store.CountAdmins()
	if err != nil {
		return err
	}
	if n == 0 {
		created, err := ctx.Admin.Bootstrap(ctx.Auth, in)
		if err != nil {
			return err
		}
		if err := saveSession(ctx, created); err != nil {
			return err
		}
		fmt.Printf("✓ Created first admin %s (super_admin) and logged in\n", created.Username)
		return nil
	}

	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	created, err := ctx.Admin.AddAdmin(a, ctx.Auth, in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Created admin %s (%s)\n", created.Username, created.Role)
	return nil
}

type PasswordCmd struct {
	Current string `help:"Current password. Prompted for when omitted."`
	New     string `help:"New password. Prompted for when omitted."`
}

func (c *PasswordCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	err = cli.PromptMissing([]cli.PromptField{
		{Title: "Current password", Value: &c.Current, Secret: true},
		{Title: "New password", Value: &c.New, Secret: true},
	})
	if err != nil {
		return err
	}
	if err := ctx.Admin.ChangePassword(a, ctx.Auth, c.Current, c.New); err != nil {
		return err
	}
	fmt.Println("✓ Password changed")
	return nil
}

type UsersCmd struct {
	Page   int    `default:"1" help:"Page number."`
	Limit  int    `default:"20" help:"Rows per page."`
	Search string `short:"s" help:"Match username or partner name."`
}

func (c *UsersCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	page, err := ctx.Admin.ListUsers(a, c.Page, c.Limit, c.Search)
	if err != nil {
		return err
	}

	loc, err := ctx.Config.Location()
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(page.Users))
	for _, u := range page.Users {
		state := "preview"
		if u.IsActive {
			state = "live"
		}
		if u.IsBanned {
			state = "banned"
		}
		lastActive := "-"
		if u.LastActive != nil {
			lastActive = utils.FormatDisplay(*u.LastActive, loc)
		}
		rows = append(rows, []string{u.ID, u.Username, u.PartnerName, state, strconv.Itoa(u.ConfessionsCount), lastActive})
	}
	fmt.Println(cli.RenderTable(
		[]string{"ID", "Username", "Partner", "State", "Replies", "Last active"}, rows,
		cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignRight,
	))
	fmt.Printf("Page %d · %d of %d creators\n", page.Page, len(page.Users), page.Total)
	return nil
}

type BanCmd struct {
	UserID string `arg:"" help:"Creator id."`
	Reason string `short:"r" help:"Reason recorded with the ban."`
}

func (c *BanCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	if err := ctx.Admin.BanUser(a, c.UserID, c.Reason); err != nil {
		return err
	}
	fmt.Printf("✓ Banned %s\n", c.UserID)
	return nil
}

type UnbanCmd struct {
	UserID string `arg:"" help:"Creator id."`
}

func (c *UnbanCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	if err := ctx.Admin.UnbanUser(a, c.UserID); err != nil {
		return err
	}
	fmt.Printf("✓ Unbanned %s\n", c.UserID)
	return nil
}

type DeleteUserCmd struct {
	UserID string `arg:"" help:"Creator id."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteUserCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := cli.Confirm(fmt.Sprintf("Delete %s and every reply they received?", c.UserID))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}
	if err := ctx.Admin.DeleteUser(a, c.UserID); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	fmt.Printf("✓ Deleted %s\n", c.UserID)
	return nil
}

type ConfessionsCmd struct {
	Day    string `help:"Only this day."`
	User   string `help:"Only this creator id."`
	Search string `short:"s" help:"Match text, username or partner name."`
	Full   bool   `help:"Render each reply instead of a one-line summary."`
}

func (c *ConfessionsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	filter := admin.ConfessionFilter{UserID: c.User, Search: c.Search}
	if c.Day != "" {
		d, ok := models.ParseDay(strings.ToLower(c.Day))
		if !ok {
			return fmt.Errorf("unknown day %q", c.Day)
		}
		filter.Day = d
	}

	records, err := ctx.Admin.ListConfessions(a, filter)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No confessions match.")
		return nil
	}

	loc, err := ctx.Config.Location()
	if err != nil {
		return err
	}
	if c.Full {
		for _, r := range records {
			fmt.Printf("%s → %s · %s · %s\n", r.Username, r.PartnerName, r.ID, utils.FormatDisplay(r.Date, loc))
			fmt.Println(confession.Render(confession.Decode(r.Day, r.Text)))
		}
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			utils.FormatDisplay(r.Date, loc),
			r.Day.Title(),
			r.Username,
			r.ID,
			confession.Summary(confession.Decode(r.Day, r.Text)),
		})
	}
	fmt.Println(cli.RenderTable([]string{"Date", "Day", "Creator", "ID", "Summary"}, rows))
	return nil
}

type DeleteConfessionCmd struct {
	UserID       string `arg:"" help:"Creator id."`
	ConfessionID string `arg:"" help:"Confession id."`
}

func (c *DeleteConfessionCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	if err := ctx.Admin.DeleteConfession(a, c.UserID, c.ConfessionID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted confession %s\n", c.ConfessionID)
	return nil
}

type LogsCmd struct {
	Limit int `short:"n" default:"20" help:"Entries to show."`
}

func (c *LogsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	logs, err := ctx.Admin.Logs(a, c.Limit)
	if err != nil {
		return err
	}

	loc, err := ctx.Config.Location()
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		var details []string
		for k, v := range l.Details {
			details = append(details, k+"="+v)
		}
		rows = append(rows, []string{utils.FormatDisplay(l.CreatedAt, loc), l.AdminID, l.Action, l.TargetType + " " + l.TargetID, strings.Join(details, " ")})
	}
	fmt.Println(cli.RenderTable([]string{"When", "Admin", "Action", "Target", "Details"}, rows))
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	s, err := ctx.Admin.Stats(a)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderTable([]string{"Metric", "Value"}, [][]string{
		{"Creators", strconv.Itoa(s.TotalUsers)},
		{"Active this week", strconv.Itoa(s.ActiveUsers)},
		{"Confessions", strconv.Itoa(s.TotalConfessions)},
		{"Per creator", strconv.FormatFloat(s.AvgConfessionsPerUser, 'f', 1, 64)},
	}, cli.AlignLeft, cli.AlignRight))
	return nil
}

type ModeForceCmd struct {
	Mode string `arg:"" enum:"live,demo" help:"Force every partner session into this mode."`
}

func (c *ModeForceCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	mode, _ := unlock.ParseMode(c.Mode)
	if err := ctx.Admin.ForceMode(ctx.Context(), a, ctx.Preview(adminSession), mode); err != nil {
		return err
	}
	fmt.Printf("✓ Every partner session is now in %s mode\n", mode)
	return nil
}

type ModeClearCmd struct{}

func (c *ModeClearCmd) Run(ctx *cli.Context) error {
	a, err := ctx.CurrentAdmin()
	if err != nil {
		return err
	}
	if err := ctx.Admin.ClearMode(ctx.Context(), a, ctx.Preview(adminSession)); err != nil {
		return err
	}
	fmt.Println("✓ Override cleared; sessions follow their own mode again")
	return nil
}

type ModeShowCmd struct{}

func (c *ModeShowCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.CurrentAdmin(); err != nil {
		return err
	}
	if mode, ok := ctx.Preview(adminSession).AdminMode(ctx.Context()); ok {
		fmt.Printf("Forced mode: %s\n", mode)
	} else {
		fmt.Println("No override; each creator's live/preview status applies.")
	}
	return nil
}

func saveSession(ctx *cli.Context, a models.Admin) error {
	err := keyring.SaveSession(keyring.AdminSession, keyring.Session{ID: a.ID, Username: a.Username, LastSeen: ctx.Now()})
	if err != nil {
		return fmt.Errorf("failed to start admin session: %w", err)
	}
	return nil
}
