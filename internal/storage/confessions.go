package storage

import (
	"github.com/julianstephens/valweek/internal/logger"
	"github.com/julianstephens/valweek/internal/models"
)

// SaveConfessionQuietly saves c and logs, rather than returns, any failure.
// The partner flow must never be interrupted by a failed save. It reports
// whether the save succeeded.
func SaveConfessionQuietly(p Provider, userID string, c models.Confession) bool {
	if err := p.SaveConfession(userID, c); err != nil {
		logger.Warn("Failed to save confession", "user", userID, "day", c.Day, "id", c.ID, "error", err)
		return false
	}
	logger.Debug("Saved confession", "user", userID, "day", c.Day, "id", c.ID)
	return true
}
