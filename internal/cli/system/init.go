package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/config"
	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if config.IsPostgresURL(dbPath) || dbPath == "postgresql" {
			return fmt.Errorf("--force is only supported for SQLite databases")
		}
		if c.Source != "" {
			if absDbPath, err := filepath.Abs(dbPath); err == nil {
				dbPath = absDbPath
			}
			if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to release the file
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized valweek storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.ConfigFile != "" {
		written, err := config.WriteSample(ctx.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		if written {
			fmt.Printf("Wrote default config to: %s\n", ctx.ConfigFile)
		}
	}

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		source, err := cli.OpenStore(c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if err := migrateData(ctx.Store, source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

// migrateData copies creators with their configs and the admin log.
func migrateData(dst, src storage.Provider) error {
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	fmt.Println("  Migrating creators...")
	users, err := allUsers(src)
	if err != nil {
		return fmt.Errorf("failed to get creators from source: %w", err)
	}
	confessions := 0
	for _, u := range users {
		if err := dst.CreateUser(u.User); err != nil {
			return fmt.Errorf("failed to add creator %s: %w", u.Username, err)
		}
		if u.IsBanned {
			reason, at := "", ""
			if u.BannedReason != nil {
				reason = *u.BannedReason
			}
			if u.BannedAt != nil {
				at = *u.BannedAt
			}
			if err := dst.SetUserBan(u.ID, true, reason, at); err != nil {
				return fmt.Errorf("failed to ban creator %s: %w", u.Username, err)
			}
		}

		cfg, err := src.GetUserConfig(u.ID)
		if err != nil {
			return fmt.Errorf("failed to get config for %s: %w", u.Username, err)
		}
		for _, d := range models.AllDays() {
			if content, ok := cfg.Days[d]; ok {
				if err := dst.UpdateDayContent(u.ID, d, content); err != nil {
					return fmt.Errorf("failed to copy %s content for %s: %w", d, u.Username, err)
				}
			}
		}
		if err := dst.UpdateConfigStatus(u.ID, cfg.IsActive); err != nil {
			return fmt.Errorf("failed to copy status for %s: %w", u.Username, err)
		}
		for _, conf := range cfg.Confessions {
			if err := dst.SaveConfession(u.ID, conf); err != nil {
				return fmt.Errorf("failed to copy confession %s: %w", conf.ID, err)
			}
			confessions++
		}
	}
	fmt.Printf("    Migrated %d creators and %d confessions\n", len(users), confessions)

	// Admin accounts stay behind; only the most recent log page is carried over.
	fmt.Println("  Migrating admin log...")
	logs, err := src.ListAdminLogs(constants.MaxPageSize)
	if err != nil {
		return fmt.Errorf("failed to get admin log from source: %w", err)
	}
	for _, l := range logs {
		if err := dst.AddAdminLog(l); err != nil {
			return fmt.Errorf("failed to add admin log %s: %w", l.ID, err)
		}
	}
	fmt.Printf("    Migrated %d admin log entries\n", len(logs))

	return nil
}

func allUsers(p storage.Provider) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for page := 1; ; page++ {
		res, err := p.ListUsers(page, 100, "")
		if err != nil {
			return nil, err
		}
		out = append(out, res.Users...)
		if len(res.Users) == 0 || len(out) >= res.Total {
			return out, nil
		}
	}
}
