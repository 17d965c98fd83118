package account

import (
	"errors"
	"fmt"

	"github.com/julianstephens/valweek/internal/auth"
	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/keyring"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/unlock"
)

type RegisterCmd struct {
	Username string `arg:"" optional:"" help:"Username to register."`
	Partner  string `short:"p" help:"Your partner's name, shown on every day."`
	PIN      string `help:"Four to eight digit PIN. Prompted for when omitted."`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	err := cli.PromptMissing([]cli.PromptField{
		{Title: "Username", Value: &c.Username},
		{Title: "Partner name", Value: &c.Partner},
		{Title: "PIN", Value: &c.PIN, Secret: true},
	})
	if err != nil {
		return err
	}

	user, err := ctx.Auth.RegisterUser(auth.RegisterInput{Username: c.Username, PartnerName: c.Partner, PIN: c.PIN})
	if err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			return fmt.Errorf("username %q is already taken", auth.NormalizeUsername(c.Username))
		}
		return err
	}

	if err := startSession(ctx, user); err != nil {
		return err
	}

	fmt.Printf("✓ Registered %s for %s\n", user.Username, user.PartnerName)
	fmt.Printf("  Share link: %s\n", ctx.ShareLink(user.ID, unlock.CurrentDay(ctx.Now())))
	fmt.Println("  Your week is in preview until you run 'valweek status live'.")
	return nil
}

type LoginCmd struct {
	Username string `arg:"" optional:"" help:"Username."`
	PIN      string `help:"PIN. Prompted for when omitted."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	err := cli.PromptMissing([]cli.PromptField{
		{Title: "Username", Value: &c.Username},
		{Title: "PIN", Value: &c.PIN, Secret: true},
	})
	if err != nil {
		return err
	}

	user, err := ctx.Auth.LoginUser(c.Username, c.PIN)
	if err != nil {
		return err
	}
	if err := startSession(ctx, user); err != nil {
		return err
	}

	fmt.Printf("✓ Logged in as %s\n", user.Username)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.ClearSession(keyring.CreatorSession); err != nil {
		return err
	}
	fmt.Println("✓ Logged out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	cfg, err := ctx.Store.GetUserConfig(user.ID)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	status := "preview"
	if cfg.IsActive {
		status = "live"
	}
	fmt.Printf("User:        %s\n", user.Username)
	fmt.Printf("Partner:     %s\n", user.PartnerName)
	fmt.Printf("Status:      %s\n", status)
	fmt.Printf("Confessions: %d\n", len(cfg.Confessions))
	return nil
}

func startSession(ctx *cli.Context, user models.User) error {
	err := keyring.SaveSession(keyring.CreatorSession, keyring.Session{
		ID:       user.ID,
		Username: user.Username,
		LastSeen: ctx.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}
