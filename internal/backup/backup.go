// Package backup keeps rotating point-in-time copies of the SQLite database
// next to it, in a "backups" directory.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/logger"
)

// MaxBackups is how many backups are retained after each CreateBackup.
const MaxBackups = constants.MaxBackups

const timestampFormat = "20060102-150405.000"

var (
	// ErrUnsupported is returned for stores that are not a local SQLite file.
	ErrUnsupported = errors.New("backups are only supported for SQLite databases")
	// ErrInvalidBackup is returned when a restore source is not a readable database.
	ErrInvalidBackup = errors.New("not a valid valweek backup")
)

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists and restores backups of the database at dbPath.
type Manager struct {
	dbPath    string
	backupDir string
	now       func() time.Time
}

// NewManager returns a Manager for the database at dbPath.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
	}
}

// GetBackupDir returns the directory backups are written to.
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) supported() error {
	if m.dbPath == "" || m.dbPath == "postgresql" || strings.Contains(m.dbPath, "://") {
		return ErrUnsupported
	}
	return nil
}

// CreateBackup writes a consistent snapshot of the database and prunes old
// backups down to MaxBackups. It returns the new backup's path.
func (m *Manager) CreateBackup() (string, error) {
	if err := m.supported(); err != nil {
		return "", err
	}
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database not found: %w", err)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := constants.BackupFilePrefix + m.now().UTC().Format(timestampFormat) + constants.BackupFileSuffix
	target := filepath.Join(m.backupDir, name)

	if err := snapshot(m.dbPath, target); err != nil {
		return "", err
	}
	logger.Info("Backup created", "path", target)

	if err := m.prune(); err != nil {
		logger.Warn("Failed to prune old backups", "error", err)
	}

	return target, nil
}

// snapshot uses VACUUM INTO so the copy is consistent even while the store
// holds an open connection.
func snapshot(src, dst string) error {
	db, err := sql.Open("sqlite", src)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return os.Chmod(dst, 0600)
}

// ListBackups returns every backup, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	if err := m.supported(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
		ts, err := time.Parse(timestampFormat, stamp)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) prune() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return err
		}
		logger.Debug("Pruned backup", "path", backups[i].Path)
	}
	return nil
}

// RestoreBackup replaces the database with the backup at path. The current
// database is backed up first. Callers must close their store beforehand.
func (m *Manager) RestoreBackup(path string) error {
	if err := m.supported(); err != nil {
		return err
	}
	if err := verify(path); err != nil {
		return err
	}

	if _, err := os.Stat(m.dbPath); err == nil {
		if _, err := m.CreateBackup(); err != nil {
			return fmt.Errorf("failed to back up current database: %w", err)
		}
	}

	tmp := m.dbPath + ".restore"
	if err := copyFile(path, tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(m.dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			_ = os.Remove(tmp)
			return fmt.Errorf("failed to remove %s file: %w", suffix, err)
		}
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace database: %w", err)
	}

	logger.Info("Backup restored", "from", path)
	return nil
}

func verify(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup file not found: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil || result != "ok" {
		return fmt.Errorf("%w: integrity check failed", ErrInvalidBackup)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='users'").Scan(&n); err != nil || n == 0 {
		return fmt.Errorf("%w: users table missing", ErrInvalidBackup)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy backup: %w", err)
	}
	return out.Close()
}
