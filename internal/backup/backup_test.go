package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (string, *sqlite.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "valweek.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return dbPath, store
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	ts := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}
}

func TestCreateAndListBackups(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock()

	first, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	second, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	if filepath.Dir(first) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(first), mgr.GetBackupDir())
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("len(backups) = %d, want 2", len(backups))
	}
	if backups[0].Path != second || backups[1].Path != first {
		t.Errorf("ListBackups() not newest first: %v", backups)
	}
	if backups[0].Size == 0 {
		t.Error("backup size is zero")
	}
}

func TestListBackups_NoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "valweek.db"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("len(backups) = %d, want 0", len(backups))
	}
}

func TestListBackups_IgnoresForeignFiles(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "valweek-garbage.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("ListBackups() = %v, want none", backups)
	}
}

func TestCreateBackup_PrunesOldest(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock()

	var paths []string
	for i := 0; i < MaxBackups+2; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup() #%d error = %v", i, err)
		}
		paths = append(paths, p)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("len(backups) = %d, want %d", len(backups), MaxBackups)
	}
	for _, p := range paths[:2] {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("oldest backup %s was not pruned", filepath.Base(p))
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath, store := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock()

	user := models.User{ID: "u1", Username: "asha", PartnerName: "Ravi", PinHash: "h", CreatedAt: "2026-02-01T00:00:00Z"}
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	snapshot, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	if err := store.DeleteUser("u1"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := mgr.RestoreBackup(snapshot); err != nil {
		t.Fatalf("RestoreBackup() error = %v", err)
	}

	restored := sqlite.NewStore(dbPath)
	if err := restored.Load(); err != nil {
		t.Fatalf("Load() after restore error = %v", err)
	}
	defer restored.Close()

	got, err := restored.GetUser("u1")
	if err != nil {
		t.Fatalf("GetUser() after restore error = %v", err)
	}
	if got.Username != "asha" {
		t.Errorf("Username = %q, want asha", got.Username)
	}

	// The pre-restore database was kept as a second backup.
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("len(backups) = %d, want 2", len(backups))
	}
}

func TestRestoreBackup_RejectsInvalidFile(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := mgr.RestoreBackup(bogus); !errors.Is(err, ErrInvalidBackup) {
		t.Errorf("RestoreBackup(bogus) error = %v, want ErrInvalidBackup", err)
	}
}

func TestUnsupportedStore(t *testing.T) {
	mgr := NewManager("postgresql")
	if _, err := mgr.CreateBackup(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("CreateBackup() error = %v, want ErrUnsupported", err)
	}
	if _, err := mgr.ListBackups(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("ListBackups() error = %v, want ErrUnsupported", err)
	}
}
