package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/cli/account"
	"github.com/julianstephens/valweek/internal/cli/backups"
	"github.com/julianstephens/valweek/internal/cli/console"
	"github.com/julianstephens/valweek/internal/cli/content"
	"github.com/julianstephens/valweek/internal/cli/dashboard"
	"github.com/julianstephens/valweek/internal/cli/partner"
	"github.com/julianstephens/valweek/internal/cli/system"
	"github.com/julianstephens/valweek/internal/config"
	"github.com/julianstephens/valweek/internal/constants"
	apperrors "github.com/julianstephens/valweek/internal/errors"
	"github.com/julianstephens/valweek/internal/logger"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/unlock"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to the TOML config file." type:"path"`
	DB      string `name:"db" help:"SQLite file path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the keyring, VALWEEK_DB_CONNECTION or .pgpass."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize valweek storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the partner HTTP API."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring and session status." default:"1"`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Register account.RegisterCmd `cmd:"" help:"Create a creator account and start a session."`
	Login    account.LoginCmd    `cmd:"" help:"Log in as a creator."`
	Logout   account.LogoutCmd   `cmd:"" help:"End the creator session."`
	Whoami   account.WhoamiCmd   `cmd:"" help:"Show the logged-in creator."`

	Dashboard   dashboard.DashboardCmd   `cmd:"" help:"Show your week, replies and share link." default:"1"`
	Confessions dashboard.ConfessionsCmd `cmd:"" help:"Read your partner's replies."`
	Links       dashboard.LinksCmd       `cmd:"" help:"Print a share link for every day."`
	Content     struct {
		Show   content.ShowCmd   `cmd:"" help:"Show the copy and unlock time for each day." default:"1"`
		Set    content.SetCmd    `cmd:"" help:"Edit the copy for one day."`
		Status content.StatusCmd `cmd:"" help:"Switch between live and preview."`
	} `cmd:"" help:"Manage your week's content."`

	View      partner.ViewCmd      `cmd:"" help:"Show what a partner link resolves to."`
	Countdown partner.CountdownCmd `cmd:"" help:"Watch the countdown to a locked day."`
	Play      partner.PlayCmd      `cmd:"" help:"Play a day as the partner and record the reply."`

	Admin struct {
		Login       console.LoginCmd            `cmd:"" help:"Log in to the admin console."`
		Logout      console.LogoutCmd           `cmd:"" help:"End the admin session."`
		Create      console.CreateCmd           `cmd:"" help:"Create an admin. The first one needs no session."`
		Password    console.PasswordCmd         `cmd:"" help:"Change your admin password."`
		Users       console.UsersCmd            `cmd:"" help:"List creators." default:"1"`
		Ban         console.BanCmd              `cmd:"" help:"Ban a creator."`
		Unban       console.UnbanCmd            `cmd:"" help:"Lift a ban."`
		Delete      console.DeleteUserCmd       `cmd:"" help:"Delete a creator and their replies."`
		Confessions console.ConfessionsCmd      `cmd:"" help:"Moderate replies across every creator."`
		Remove      console.DeleteConfessionCmd `cmd:"" help:"Delete one reply."`
		Logs        console.LogsCmd             `cmd:"" help:"Show the admin audit log."`
		Stats       console.StatsCmd            `cmd:"" help:"Show usage analytics."`
		Mode        struct {
			Show  console.ModeShowCmd  `cmd:"" help:"Show the global override." default:"1"`
			Force console.ModeForceCmd `cmd:"" help:"Force every partner session into live or demo."`
			Clear console.ModeClearCmd `cmd:"" help:"Remove the global override."`
		} `cmd:"" help:"Manage the global preview override."`
	} `cmd:"" help:"Admin console."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("valweek"),
		kong.Description("Valentine Week: one surprise a day, unlocked on schedule"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	apperrors.Fatal(withHint(run(ctx)))
}

func withHint(err error) error {
	switch {
	case errors.Is(err, cli.ErrNotLoggedIn):
		return apperrors.WithHint(err, "run 'valweek login' or 'valweek register'")
	case errors.Is(err, cli.ErrAdminNotLoggedIn):
		return apperrors.WithHint(err, "run 'valweek admin login', or 'valweek admin create' on a fresh install")
	case errors.Is(err, storage.ErrBanned):
		return apperrors.WithHint(err, "contact an admin to lift the ban")
	}
	return err
}

func run(ctx *kong.Context) error {
	cfg, cfgPath, _, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	command := ctx.Command()
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Logging.Debug,
		Level:     cfg.Logging.Level,
		ConfigDir: filepath.Dir(cfgPath),
		Stderr:    command == "serve",
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	target := CLI.DB
	if target == "" {
		target, err = configuredDatabase(cfg)
		if err != nil {
			return err
		}
	}
	store, err := cli.OpenStore(target)
	if err != nil {
		return err
	}
	defer store.Close()

	appCtx, err := cli.NewContext(store, cfg, unlock.SystemClock{})
	if err != nil {
		return err
	}
	appCtx.ConfigFile = cfgPath

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	appCtx.SetContext(sigCtx)

	// Init handles its own loading; serve connects Redis itself.
	if command != "init" {
		if err := store.Load(); err != nil {
			return err
		}
	}
	if command != "serve" {
		if err := appCtx.ConnectRedis(sigCtx); err != nil {
			logger.Warn("Redis unavailable, using local preview sessions", "error", err)
		}
	}

	return ctx.Run(appCtx)
}

// configuredDatabase returns the database from the config, or "" when it is
// still the built-in default so OpenStore can try the keyring first.
func configuredDatabase(cfg *config.Config) (string, error) {
	def, err := config.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return "", err
	}
	if cfg.Database.Path == def {
		return "", nil
	}
	return cfg.Database.Path, nil
}
