package keyring

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/valweek/internal/constants"
	"github.com/zalando/go-keyring"
)

// ErrSessionExpired is returned when a stored session has been idle longer
// than its kind allows. The expired session is removed.
var ErrSessionExpired = errors.New("session expired, please log in again")

// SessionKind selects which keyring slot and idle timeout a session uses.
type SessionKind int

const (
	CreatorSession SessionKind = iota
	AdminSession
)

func (k SessionKind) user() string {
	if k == AdminSession {
		return constants.AdminKeyringUser
	}
	return constants.SessionKeyringUser
}

// Timeout is the idle time after which a session of this kind expires.
func (k SessionKind) Timeout() time.Duration {
	if k == AdminSession {
		return constants.AdminSessionTimeout
	}
	return constants.UserSessionTimeout
}

// Session is a logged-in creator or admin.
type Session struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	LastSeen time.Time `json:"lastSeen"`
}

// SaveSession stores s in the slot for kind, replacing any previous session.
func SaveSession(kind SessionKind, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := keyring.Set(constants.AppName, kind.user(), string(data)); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

// LoadSession returns the session for kind if it has not been idle longer
// than kind.Timeout() at now.
func LoadSession(kind SessionKind, now time.Time) (Session, error) {
	raw, err := keyring.Get(constants.AppName, kind.user())
	if err != nil {
		if err == keyring.ErrNotFound {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		_ = ClearSession(kind)
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}

	if now.Sub(s.LastSeen) > kind.Timeout() {
		_ = ClearSession(kind)
		return Session{}, ErrSessionExpired
	}
	return s, nil
}

// TouchSession loads the session for kind and refreshes its idle timer.
func TouchSession(kind SessionKind, now time.Time) (Session, error) {
	s, err := LoadSession(kind, now)
	if err != nil {
		return Session{}, err
	}
	s.LastSeen = now
	if err := SaveSession(kind, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// ClearSession logs out the session for kind. A missing session is not an error.
func ClearSession(kind SessionKind) error {
	err := keyring.Delete(constants.AppName, kind.user())
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	return nil
}
