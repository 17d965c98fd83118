package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
)

const adminColumns = `id, username, email, role, permissions, is_active, last_login, password_hash, created_at`

func scanAdmin(row rowScanner) (models.Admin, error) {
	var a models.Admin
	var perms string
	var lastLogin sql.NullString
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Role, &perms, &a.IsActive, &lastLogin, &a.PasswordHash, &a.CreatedAt); err != nil {
		return models.Admin{}, err
	}
	if perms != "" {
		if err := json.Unmarshal([]byte(perms), &a.Permissions); err != nil {
			return models.Admin{}, fmt.Errorf("failed to decode permissions for admin %s: %w", a.Username, err)
		}
	}
	a.LastLogin = nullStringPtr(lastLogin)
	return a, nil
}

func (s *Store) CreateAdmin(a models.Admin) error {
	perms, err := json.Marshal(a.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow("SELECT count(*) FROM admins WHERE username = ?", a.Username).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", storage.ErrUsernameTaken, a.Username)
	}

	_, err = tx.Exec(`
		INSERT INTO admins (id, username, email, role, permissions, is_active, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.Email, a.Role, string(perms), a.IsActive, a.PasswordHash, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return tx.Commit()
}

func (s *Store) GetAdmin(id string) (models.Admin, error) {
	a, err := scanAdmin(s.db.QueryRow("SELECT "+adminColumns+" FROM admins WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Admin{}, fmt.Errorf("admin %s: %w", id, storage.ErrNotFound)
	}
	return a, err
}

func (s *Store) GetAdminByUsername(username string) (models.Admin, error) {
	a, err := scanAdmin(s.db.QueryRow("SELECT "+adminColumns+" FROM admins WHERE username = ?", username))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Admin{}, fmt.Errorf("admin %s: %w", username, storage.ErrNotFound)
	}
	return a, err
}

func (s *Store) UpdateAdminLogin(id, at string) error {
	res, err := s.db.Exec("UPDATE admins SET last_login = ? WHERE id = ?", at, id)
	if err != nil {
		return err
	}
	return requireRow(res, "admin", id)
}

func (s *Store) UpdateAdminPassword(id, hash string) error {
	res, err := s.db.Exec("UPDATE admins SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return err
	}
	return requireRow(res, "admin", id)
}

func (s *Store) CountAdmins() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT count(*) FROM admins").Scan(&count)
	return count, err
}

func (s *Store) AddAdminLog(l models.AdminLog) error {
	details, err := json.Marshal(l.Details)
	if err != nil {
		return fmt.Errorf("failed to encode log details: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO admin_logs (id, admin_id, action, target_type, target_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.AdminID, l.Action, l.TargetType, l.TargetID, string(details), l.CreatedAt)
	return err
}

func (s *Store) ListAdminLogs(limit int) ([]models.AdminLog, error) {
	_, limit = storage.NormalizePage(1, limit)

	rows, err := s.db.Query(`
		SELECT id, admin_id, action, target_type, target_id, details, created_at
		FROM admin_logs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.AdminLog{}
	for rows.Next() {
		var l models.AdminLog
		var details string
		if err := rows.Scan(&l.ID, &l.AdminID, &l.Action, &l.TargetType, &l.TargetID, &details, &l.CreatedAt); err != nil {
			return nil, err
		}
		if details != "" && details != "null" {
			if err := json.Unmarshal([]byte(details), &l.Details); err != nil {
				return nil, fmt.Errorf("failed to decode details for log %s: %w", l.ID, err)
			}
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
