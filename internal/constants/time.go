package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the clock format used for rose day log entries (HH:MM:SS)
	TimeFormat = "15:04:05"

	// DisplayTimeFormat is used when listing records
	DisplayTimeFormat = "2006-01-02 15:04"
)
