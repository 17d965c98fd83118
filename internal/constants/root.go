package constants

import "time"

const (
	AppName            = "valweek"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "creator-session"
	AdminKeyringUser   = "admin-session"
	DefaultConfigDir   = "~/.config/valweek"
	DefaultConfigPath  = "~/.config/valweek/valweek.db"
	DefaultConfigFile  = "~/.config/valweek/config.toml"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "valweek-"
	BackupFileSuffix = ".db"

	// Unlock constants
	DefaultScheduleYear  = 2026
	DefaultDemoCountdown = 10 * time.Second

	// Session timeouts
	UserSessionTimeout  = 30 * time.Minute
	AdminSessionTimeout = 15 * time.Minute

	// Analytics window for "active" creators
	ActiveUserWindow = 7 * 24 * time.Hour

	// Server defaults
	DefaultServerAddr = ":8080"
	DefaultShareURL   = "http://localhost:5173"
	SessionHeader     = "X-Session-ID"

	// Admin list defaults
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Admin roles
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
	RoleModerator  = "moderator"
)

// Admin permissions
const (
	PermManageUsers    = "manage_users"
	PermModerate       = "moderate_confessions"
	PermViewAnalytics  = "view_analytics"
	PermManageSettings = "manage_settings"
	PermManageAdmins   = "manage_admins"
)

// Admin log actions
const (
	ActionBanUser          = "ban_user"
	ActionUnbanUser        = "unban_user"
	ActionDeleteUser       = "delete_user"
	ActionDeleteConfession = "delete_confession"
	ActionForceMode        = "force_mode"
	ActionClearMode        = "clear_mode"
	ActionCreateAdmin      = "create_admin"
	ActionChangePassword   = "change_password"
)
