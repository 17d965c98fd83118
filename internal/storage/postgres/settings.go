package postgres

import (
	"database/sql"
	"errors"
)

func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) SetSetting(key, value string) error {
	// PostgreSQL uses INSERT ... ON CONFLICT for upsert
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}

func (s *Store) SetSettingIfAbsent(key, value string) (string, bool, error) {
	var current string
	err := s.db.QueryRow(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
		RETURNING value`, key, value).Scan(&current)
	if err == nil {
		return current, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}

	// Another writer got there first.
	if err := s.db.QueryRow("SELECT value FROM settings WHERE key = $1", key).Scan(&current); err != nil {
		return "", false, err
	}
	return current, false, nil
}

func (s *Store) DeleteSetting(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = $1", key)
	return err
}
