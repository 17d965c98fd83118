package system

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/valweek/internal/backup"
	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/models"
)

// dbHandle is implemented by both storage backends.
type dbHandle interface {
	GetDB() *sql.DB
}

type schemaReporter interface {
	SchemaVersion() (current, latest int, err error)
}

// errWarning marks a check that should be reported but not fail the run.
var errWarning = errors.New("warning")

type check struct {
	name  string
	needs bool // needs a reachable database
	run   func(*cli.Context) error
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{"Schema version", true, checkSchemaVersion},
		{"Migrations complete", true, checkMigrationsComplete},
		{"Backups present", false, checkBackupsPresent},
		{"Configuration", false, checkConfig},
		{"Clock/timezone", false, checkClockTimezone},
		{"Admin accounts", true, checkAdmins},
		{"Orphaned configs", true, checkOrphanedConfigs},
		{"Confession integrity", true, checkConfessions},
	}

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needs && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errWarning):
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", errors.Unwrap(err))
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func warn(format string, args ...any) error {
	return fmt.Errorf("%w: %w", errWarning, fmt.Errorf(format, args...))
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if h, ok := ctx.Store.(dbHandle); ok {
		db := h.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func schemaVersions(ctx *cli.Context) (int, int, bool, error) {
	r, ok := ctx.Store.(schemaReporter)
	if !ok {
		return 0, 0, false, nil
	}
	current, latest, err := r.SchemaVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to read schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return warn("failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		return warn("no backups found - consider creating one with 'valweek backup create'")
	}
	return nil
}

func checkConfig(ctx *cli.Context) error {
	if ctx.Config == nil {
		return nil
	}
	return ctx.Config.Validate()
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil {
		if _, err := ctx.Config.Location(); err != nil {
			return err
		}
	}
	return nil
}

func checkAdmins(ctx *cli.Context) error {
	n, err := ctx.Store.CountAdmins()
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if n == 0 {
		return warn("no admin accounts - create one with 'valweek admin create'")
	}
	return nil
}

func checkOrphanedConfigs(ctx *cli.Context) error {
	h, ok := ctx.Store.(dbHandle)
	if !ok || h.GetDB() == nil {
		return nil
	}

	var orphaned int
	err := h.GetDB().QueryRow(`
		SELECT COUNT(*)
		FROM valentine_config vc
		LEFT JOIN users u ON vc.user_id = u.id
		WHERE u.id IS NULL
	`).Scan(&orphaned)
	if err != nil {
		return fmt.Errorf("failed to check orphaned configs: %w", err)
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d valentine config(s) without a creator", orphaned)
	}
	return nil
}

func checkConfessions(ctx *cli.Context) error {
	records, err := ctx.Store.ListConfessions()
	if err != nil {
		return fmt.Errorf("failed to list confessions: %w", err)
	}

	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("confession without id for user %s", r.UserID)
		}
		if _, ok := models.ParseDay(string(r.Day)); !ok {
			return fmt.Errorf("confession %s has unknown day %q", r.ID, r.Day)
		}
		if _, err := time.Parse(time.RFC3339, r.Date); err != nil {
			return fmt.Errorf("confession %s has invalid date %q", r.ID, r.Date)
		}
	}
	return nil
}
