package sqlite

import (
	"database/sql"
	"errors"
)

func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	return err
}

func (s *Store) SetSettingIfAbsent(key, value string) (string, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return "", false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, err
	}
	if n == 1 {
		return value, true, tx.Commit()
	}

	var current string
	if err := tx.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&current); err != nil {
		return "", false, err
	}
	return current, false, tx.Commit()
}

func (s *Store) DeleteSetting(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}
