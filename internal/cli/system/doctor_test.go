package system

import (
	"errors"
	"testing"

	"github.com/julianstephens/valweek/internal/auth"
	"github.com/julianstephens/valweek/internal/backup"
	"github.com/julianstephens/valweek/internal/cli/clitest"
	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/models"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	env := clitest.New(t)

	// Missing backups and admins are warnings, not failures
	if err := (&DoctorCmd{}).Run(env.Ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_WithBackupsAndAdmin(t *testing.T) {
	env := clitest.New(t)

	if _, err := backup.NewManager(env.DBPath).CreateBackup(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	if _, err := env.Ctx.Auth.CreateAdmin(auth.AdminInput{Username: "root", Password: "hunter22", Role: constants.RoleSuperAdmin}); err != nil {
		t.Fatalf("CreateAdmin() error = %v", err)
	}

	if err := checkBackupsPresent(env.Ctx); err != nil {
		t.Errorf("checkBackupsPresent() = %v, want nil", err)
	}
	if err := checkAdmins(env.Ctx); err != nil {
		t.Errorf("checkAdmins() = %v, want nil", err)
	}
	if err := (&DoctorCmd{}).Run(env.Ctx); err != nil {
		t.Errorf("doctor command failed: %v", err)
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	env := clitest.New(t)
	db := env.Store.GetDB()

	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(env.Ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	env := clitest.New(t)
	db := env.Store.GetDB()

	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (0)"); err != nil {
		t.Fatalf("failed to insert downgraded schema version: %v", err)
	}

	if err := checkMigrationsComplete(env.Ctx); err == nil {
		t.Error("checkMigrationsComplete should fail with incomplete migrations")
	}
}

func TestCheckWarnings(t *testing.T) {
	env := clitest.New(t)

	for name, check := range map[string]func() error{
		"backups": func() error { return checkBackupsPresent(env.Ctx) },
		"admins":  func() error { return checkAdmins(env.Ctx) },
	} {
		t.Run(name, func(t *testing.T) {
			if err := check(); !errors.Is(err, errWarning) {
				t.Errorf("got %v, want a warning", err)
			}
		})
	}
}

func TestCheckOrphanedConfigs(t *testing.T) {
	env := clitest.New(t)
	db := env.Store.GetDB()

	if err := checkOrphanedConfigs(env.Ctx); err != nil {
		t.Fatalf("clean database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		t.Fatalf("failed to disable foreign keys: %v", err)
	}
	_, err := db.Exec(`INSERT INTO valentine_config (user_id, is_active, days_content, confessions, updated_at)
		VALUES ('ghost', 0, '{}', '[]', '2026-02-07T00:00:00Z')`)
	if err != nil {
		t.Fatalf("failed to insert orphan: %v", err)
	}

	if err := checkOrphanedConfigs(env.Ctx); err == nil {
		t.Error("checkOrphanedConfigs should report the orphaned row")
	}
}

func TestCheckConfessions(t *testing.T) {
	env := clitest.New(t)
	user, err := env.Ctx.Auth.RegisterUser(auth.RegisterInput{Username: "arjun", PartnerName: "Meera", PIN: "1234"})
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	good := models.Confession{ID: "s1", Date: "2026-02-07T10:00:00Z", Day: models.DayRose, Text: "hi"}
	if err := env.Store.SaveConfession(user.ID, good); err != nil {
		t.Fatalf("SaveConfession() error = %v", err)
	}
	if err := checkConfessions(env.Ctx); err != nil {
		t.Errorf("checkConfessions() = %v, want nil", err)
	}

	bad := models.Confession{ID: "s2", Date: "yesterday", Day: models.DayRose, Text: "hi"}
	if err := env.Store.SaveConfession(user.ID, bad); err != nil {
		t.Fatalf("SaveConfession() error = %v", err)
	}
	if err := checkConfessions(env.Ctx); err == nil {
		t.Error("checkConfessions should reject an unparseable date")
	}
}

func TestCheckClockTimezone(t *testing.T) {
	env := clitest.New(t)
	if err := checkClockTimezone(env.Ctx); err != nil {
		t.Errorf("clock/timezone check failed: %v", err)
	}

	env.Clock.Set(env.Clock.Now().AddDate(-50, 0, 0))
	if err := checkClockTimezone(env.Ctx); err == nil {
		t.Error("clock/timezone check should fail for a 1976 clock")
	}
}
