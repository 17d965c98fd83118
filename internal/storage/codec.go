package storage

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/models"
)

// DecodeConfig rebuilds a ValentineConfig from its stored JSON columns.
// Days missing from the stored document are filled from the defaults.
func DecodeConfig(userID string, isActive bool, days, confessions []byte) (models.ValentineConfig, error) {
	cfg := models.ValentineConfig{
		UserID:   userID,
		IsActive: isActive,
	}

	stored := map[models.Day]models.DayContent{}
	if len(days) > 0 {
		if err := json.Unmarshal(days, &stored); err != nil {
			return models.ValentineConfig{}, fmt.Errorf("failed to decode day content: %w", err)
		}
	}
	cfg.Days = make(map[models.Day]models.DayContent, len(models.AllDays()))
	for _, d := range models.AllDays() {
		cfg.Days[d] = models.ContentFor(stored, d)
	}

	if len(confessions) > 0 {
		if err := json.Unmarshal(confessions, &cfg.Confessions); err != nil {
			return models.ValentineConfig{}, fmt.Errorf("failed to decode confessions: %w", err)
		}
	}
	if cfg.Confessions == nil {
		cfg.Confessions = []models.Confession{}
	}
	return cfg, nil
}

// DecodeConfessionRecords expands one creator's stored confession list into
// moderation records.
func DecodeConfessionRecords(userID, username, partner string, raw []byte) ([]models.ConfessionRecord, error) {
	var list []models.Confession
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode confessions for user %s: %w", userID, err)
	}
	records := make([]models.ConfessionRecord, 0, len(list))
	for _, c := range list {
		records = append(records, models.ConfessionRecord{
			Confession:  c,
			UserID:      userID,
			Username:    username,
			PartnerName: partner,
		})
	}
	return records, nil
}

// SortNewestFirst orders records by date, most recent first.
func SortNewestFirst(records []models.ConfessionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}

// NormalizePage clamps a page number and page size to sane bounds.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	return page, limit
}
