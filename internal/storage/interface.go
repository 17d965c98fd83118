package storage

import "github.com/julianstephens/valweek/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Creators
	// CreateUser inserts u together with its default config. It returns
	// ErrUsernameTaken if the username is already registered.
	CreateUser(u models.User) error
	GetUser(id string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	TouchUser(id, at string) error
	SetUserBan(id string, banned bool, reason, at string) error
	// DeleteUser removes the creator's config and then the creator.
	DeleteUser(id string) error
	ListUsers(page, limit int, search string) (models.UserPage, error)

	// Valentine config
	GetUserConfig(userID string) (models.ValentineConfig, error)
	// UpdateDayContent merges content into the stored copy for day.
	UpdateDayContent(userID string, day models.Day, content models.DayContent) error
	UpdateConfigStatus(userID string, isActive bool) error
	// SaveConfession appends c, replacing any confession with the same id.
	SaveConfession(userID string, c models.Confession) error
	DeleteConfession(userID, confessionID string) error
	ListConfessions() ([]models.ConfessionRecord, error)

	// Admins
	CreateAdmin(a models.Admin) error
	GetAdmin(id string) (models.Admin, error)
	GetAdminByUsername(username string) (models.Admin, error)
	UpdateAdminLogin(id, at string) error
	UpdateAdminPassword(id, hash string) error
	CountAdmins() (int, error)

	// Admin logs
	AddAdminLog(l models.AdminLog) error
	ListAdminLogs(limit int) ([]models.AdminLog, error)

	// Stats counts creators, creators active since activeSince (RFC3339) and
	// confessions.
	Stats(activeSince string) (models.Stats, error)

	// Settings
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
	// SetSettingIfAbsent stores value only when key is missing and returns
	// the value held afterwards and whether this call created it.
	SetSettingIfAbsent(key, value string) (string, bool, error)
	DeleteSetting(key string) error

	// Utils
	GetConfigPath() string
}
