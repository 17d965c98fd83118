package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
)

const userColumns = `u.id, u.username, u.partner_name, u.pin_hash, u.is_banned,
	u.banned_at, u.banned_reason, u.last_active, u.created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner, extra ...interface{}) (models.User, error) {
	var u models.User
	var bannedAt, bannedReason, lastActive sql.NullString

	dest := []interface{}{
		&u.ID, &u.Username, &u.PartnerName, &u.PinHash, &u.IsBanned,
		&bannedAt, &bannedReason, &lastActive, &u.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.User{}, err
	}

	u.BannedAt = nullStringPtr(bannedAt)
	u.BannedReason = nullStringPtr(bannedReason)
	u.LastActive = nullStringPtr(lastActive)
	return u, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func (s *Store) CreateUser(u models.User) error {
	cfg := models.NewValentineConfig(u.ID)
	days, err := json.Marshal(cfg.Days)
	if err != nil {
		return fmt.Errorf("failed to encode day content: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow("SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)", u.Username).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", storage.ErrUsernameTaken, u.Username)
	}

	_, err = tx.Exec(`
		INSERT INTO users (id, username, partner_name, pin_hash, is_banned, last_active, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)`,
		u.ID, u.Username, u.PartnerName, u.PinHash, u.LastActive, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO valentine_config (user_id, is_active, days_content, confessions, updated_at)
		VALUES ($1, FALSE, $2, '[]'::jsonb, $3)`,
		u.ID, string(days), u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert config: %w", err)
	}

	return tx.Commit()
}

func (s *Store) GetUser(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users u WHERE u.id = $1", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return u, err
}

func (s *Store) GetUserByUsername(username string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users u WHERE u.username = $1", username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}
	return u, err
}

func (s *Store) TouchUser(id, at string) error {
	res, err := s.db.Exec("UPDATE users SET last_active = $1 WHERE id = $2", at, id)
	if err != nil {
		return err
	}
	return requireRow(res, "user", id)
}

func (s *Store) SetUserBan(id string, banned bool, reason, at string) error {
	var res sql.Result
	var err error
	if banned {
		res, err = s.db.Exec(
			"UPDATE users SET is_banned = TRUE, banned_at = $1, banned_reason = $2 WHERE id = $3",
			at, reason, id)
	} else {
		res, err = s.db.Exec(
			"UPDATE users SET is_banned = FALSE, banned_at = NULL, banned_reason = NULL WHERE id = $1",
			id)
	}
	if err != nil {
		return err
	}
	return requireRow(res, "user", id)
}

func (s *Store) DeleteUser(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM valentine_config WHERE user_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}
	res, err := tx.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if err := requireRow(res, "user", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ListUsers(page, limit int, search string) (models.UserPage, error) {
	page, limit = storage.NormalizePage(page, limit)
	pattern := "%" + search + "%"

	var total int
	err := s.db.QueryRow(`
		SELECT count(*) FROM users u
		WHERE $1 = '' OR u.username ILIKE $2 OR u.partner_name ILIKE $2`,
		search, pattern).Scan(&total)
	if err != nil {
		return models.UserPage{}, err
	}

	rows, err := s.db.Query(`
		SELECT `+userColumns+`,
			COALESCE(c.is_active, FALSE),
			COALESCE(jsonb_array_length(c.confessions), 0)
		FROM users u
		LEFT JOIN valentine_config c ON c.user_id = u.id
		WHERE $1 = '' OR u.username ILIKE $2 OR u.partner_name ILIKE $2
		ORDER BY u.created_at DESC, u.username
		LIMIT $3 OFFSET $4`,
		search, pattern, limit, (page-1)*limit)
	if err != nil {
		return models.UserPage{}, err
	}
	defer rows.Close()

	result := models.UserPage{
		Users: []models.UserSummary{},
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for rows.Next() {
		var summary models.UserSummary
		u, err := scanUser(rows, &summary.IsActive, &summary.ConfessionsCount)
		if err != nil {
			return models.UserPage{}, err
		}
		summary.User = u
		result.Users = append(result.Users, summary)
	}
	return result, rows.Err()
}

func (s *Store) Stats(activeSince string) (models.Stats, error) {
	var totalUsers, activeUsers, totalConfessions int

	err := s.db.QueryRow(`
		SELECT
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM users WHERE last_active IS NOT NULL AND last_active >= $1),
			(SELECT COALESCE(SUM(jsonb_array_length(confessions)), 0) FROM valentine_config)`,
		activeSince).Scan(&totalUsers, &activeUsers, &totalConfessions)
	if err != nil {
		return models.Stats{}, err
	}

	return models.NewStats(totalUsers, activeUsers, totalConfessions), nil
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
