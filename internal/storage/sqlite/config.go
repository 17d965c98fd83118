package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/utils"
)

type queryer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func loadConfig(q queryer, userID string) (models.ValentineConfig, error) {
	var isActive bool
	var days, confessions string
	err := q.QueryRow(
		"SELECT is_active, days_content, confessions FROM valentine_config WHERE user_id = ?",
		userID).Scan(&isActive, &days, &confessions)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ValentineConfig{}, fmt.Errorf("config for user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return models.ValentineConfig{}, err
	}
	return storage.DecodeConfig(userID, isActive, []byte(days), []byte(confessions))
}

func (s *Store) GetUserConfig(userID string) (models.ValentineConfig, error) {
	return loadConfig(s.db, userID)
}

func (s *Store) UpdateDayContent(userID string, day models.Day, content models.DayContent) error {
	if !day.Valid() {
		return fmt.Errorf("unknown day %q", day)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cfg, err := loadConfig(tx, userID)
	if err != nil {
		return err
	}
	cfg.Days[day] = cfg.Days[day].Merge(content)

	encoded, err := json.Marshal(cfg.Days)
	if err != nil {
		return fmt.Errorf("failed to encode day content: %w", err)
	}
	if _, err := tx.Exec(
		"UPDATE valentine_config SET days_content = ?, updated_at = ? WHERE user_id = ?",
		string(encoded), utils.FormatTimestamp(time.Now()), userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) UpdateConfigStatus(userID string, isActive bool) error {
	res, err := s.db.Exec(
		"UPDATE valentine_config SET is_active = ?, updated_at = ? WHERE user_id = ?",
		isActive, utils.FormatTimestamp(time.Now()), userID)
	if err != nil {
		return err
	}
	return requireRow(res, "config for user", userID)
}

func (s *Store) SaveConfession(userID string, c models.Confession) error {
	return s.updateConfessions(userID, func(list []models.Confession) ([]models.Confession, error) {
		return models.UpsertConfession(list, c), nil
	})
}

func (s *Store) DeleteConfession(userID, confessionID string) error {
	return s.updateConfessions(userID, func(list []models.Confession) ([]models.Confession, error) {
		out, found := models.RemoveConfession(list, confessionID)
		if !found {
			return nil, fmt.Errorf("confession %s: %w", confessionID, storage.ErrNotFound)
		}
		return out, nil
	})
}

// updateConfessions rewrites the confession list of one config inside a
// single transaction.
func (s *Store) updateConfessions(userID string, fn func([]models.Confession) ([]models.Confession, error)) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cfg, err := loadConfig(tx, userID)
	if err != nil {
		return err
	}

	list, err := fn(cfg.Confessions)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode confessions: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE valentine_config SET confessions = ?, updated_at = ? WHERE user_id = ?",
		string(encoded), utils.FormatTimestamp(time.Now()), userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ListConfessions() ([]models.ConfessionRecord, error) {
	rows, err := s.db.Query(`
		SELECT u.id, u.username, u.partner_name, c.confessions
		FROM valentine_config c
		JOIN users u ON u.id = c.user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.ConfessionRecord{}
	for rows.Next() {
		var userID, username, partner, raw string
		if err := rows.Scan(&userID, &username, &partner, &raw); err != nil {
			return nil, err
		}
		expanded, err := storage.DecodeConfessionRecords(userID, username, partner, []byte(raw))
		if err != nil {
			return nil, err
		}
		records = append(records, expanded...)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	storage.SortNewestFirst(records)
	return records, nil
}
