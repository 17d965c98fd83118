package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/valweek/internal/admin"
	"github.com/julianstephens/valweek/internal/auth"
	"github.com/julianstephens/valweek/internal/backup"
	"github.com/julianstephens/valweek/internal/config"
	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/keyring"
	"github.com/julianstephens/valweek/internal/kv"
	"github.com/julianstephens/valweek/internal/logger"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/storage/postgres"
	"github.com/julianstephens/valweek/internal/storage/sqlite"
	"github.com/julianstephens/valweek/internal/unlock"
)

var (
	ErrNotLoggedIn      = errors.New("not logged in, run 'valweek login' first")
	ErrAdminNotLoggedIn = errors.New("no admin session, run 'valweek admin login' first")
)

// Context carries everything a command needs. Commands receive it from kong.
type Context struct {
	Store    storage.Provider
	Config   *config.Config
	// ConfigFile is where Config was loaded from, or would be.
	ConfigFile string
	Clock    unlock.Clock
	Resolver *unlock.Resolver
	Auth     *auth.Service
	Admin    *admin.Service
	// Sessions holds preview slots for partner sessions; Global holds the
	// admin mode override. Both default to the store's settings table.
	Sessions kv.Store
	Global   kv.Store

	ctx context.Context
}

// NewContext builds a Context around an already loaded store. A nil cfg uses
// the defaults; a nil clock uses the system clock.
func NewContext(store storage.Provider, cfg *config.Config, clock unlock.Clock) (*Context, error) {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	if clock == nil {
		clock = unlock.SystemClock{}
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	settings := storage.NewSettingsKV(store)
	return &Context{
		Store:    store,
		Config:   cfg,
		Clock:    clock,
		Resolver: unlock.NewResolver(clock, unlock.DefaultSchedule(cfg.Schedule.Year, loc), cfg.DemoCountdown()),
		Auth:     auth.NewService(store, auth.WithClock(clock.Now)),
		Admin:    admin.NewService(store, clock),
		Sessions: settings,
		Global:   settings,
	}, nil
}

// OpenStore returns the provider for target: a PostgreSQL URL, or a SQLite
// file path. An empty target falls back to the keyring connection string
// and then to the default SQLite path.
func OpenStore(target string) (storage.Provider, error) {
	if target == "" {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			target = connStr
		} else {
			target = os.Getenv("VALWEEK_DB_CONNECTION")
		}
	}
	if target == "" {
		expanded, err := config.ExpandPath(constants.DefaultConfigPath)
		if err != nil {
			return nil, err
		}
		target = expanded
	}

	if config.IsPostgresURL(target) {
		if valid, err := postgres.ValidateConnString(target); !valid && errors.Is(err, postgres.ErrEmbeddedCredentials) {
			if stored, kerr := keyring.GetConnectionString(); kerr != nil || stored != target {
				return nil, fmt.Errorf("%w: store it with 'valweek keyring set' or use .pgpass", err)
			}
		}
		return postgres.New(target), nil
	}
	return sqlite.NewStore(target), nil
}

// ConnectRedis swaps the preview stores for Redis when one is configured.
// Session slots expire after the configured TTL; the admin override in
// Global stays until it is cleared.
func (c *Context) ConnectRedis(ctx context.Context) error {
	if c.Config.Redis.Addr == "" {
		return nil
	}
	r, err := kv.NewRedis(ctx, c.Config.Redis.Addr, c.Config.Redis.DB, c.Config.RedisTTL())
	if err != nil {
		return err
	}
	c.Sessions = r
	c.Global = r.Persistent()
	logger.Info("Using Redis for preview sessions", "addr", c.Config.Redis.Addr)
	return nil
}

// SetContext attaches the process context, cancelled on interrupt.
func (c *Context) SetContext(ctx context.Context) {
	c.ctx = ctx
}

// Context returns the process context, or Background before SetContext.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Preview returns the PreviewContext for sessionID.
func (c *Context) Preview(sessionID string) *unlock.PreviewContext {
	return unlock.NewPreviewContext(sessionID, c.Sessions, c.Global)
}

// Now is the context clock's current time.
func (c *Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

// CurrentUser returns the logged-in creator and refreshes the session's
// idle timer. Banned creators are logged out.
func (c *Context) CurrentUser() (models.User, error) {
	sess, err := keyring.TouchSession(keyring.CreatorSession, c.Now())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return models.User{}, ErrNotLoggedIn
		}
		return models.User{}, err
	}

	user, err := c.Store.GetUser(sess.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = keyring.ClearSession(keyring.CreatorSession)
			return models.User{}, ErrNotLoggedIn
		}
		return models.User{}, err
	}
	if user.IsBanned {
		_ = keyring.ClearSession(keyring.CreatorSession)
		return models.User{}, storage.ErrBanned
	}
	return user, nil
}

// CurrentAdmin returns the logged-in admin and refreshes the session.
func (c *Context) CurrentAdmin() (models.Admin, error) {
	sess, err := keyring.TouchSession(keyring.AdminSession, c.Now())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return models.Admin{}, ErrAdminNotLoggedIn
		}
		return models.Admin{}, err
	}

	a, err := c.Store.GetAdmin(sess.ID)
	if err != nil || !a.IsActive {
		_ = keyring.ClearSession(keyring.AdminSession)
		return models.Admin{}, ErrAdminNotLoggedIn
	}
	return a, nil
}

// ShareLink is the partner URL for one day of userID's week.
func (c *Context) ShareLink(userID string, day models.Day) string {
	base := strings.TrimRight(c.Config.Server.ShareBaseURL, "/")
	return fmt.Sprintf("%s/#/v/%s?day=%s", base, userID, day)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		if errors.Is(err, backup.ErrUnsupported) {
			return
		}
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
