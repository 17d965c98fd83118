// Package admin implements the moderation console: creator management,
// confession moderation, analytics and the global preview override. Every
// mutation is recorded in the admin log.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/logger"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/unlock"
	"github.com/julianstephens/valweek/internal/utils"
)

// ErrForbidden is returned when an admin lacks the permission for an action.
var ErrForbidden = errors.New("permission denied")

type Service struct {
	store storage.Provider
	clock unlock.Clock
}

func NewService(store storage.Provider, clock unlock.Clock) *Service {
	if clock == nil {
		clock = unlock.SystemClock{}
	}
	return &Service{store: store, clock: clock}
}

func (s *Service) require(a models.Admin, perm string) error {
	if !a.IsActive || !a.HasPermission(perm) {
		return fmt.Errorf("%w: %s requires %s", ErrForbidden, a.Username, perm)
	}
	return nil
}

// record writes an admin log row. A failed write is logged, not returned:
// the mutation it describes has already happened.
func (s *Service) record(a models.Admin, action, targetType, targetID string, details map[string]string) {
	entry := models.AdminLog{
		ID:         uuid.NewString(),
		AdminID:    a.ID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		CreatedAt:  utils.FormatTimestamp(s.clock.Now()),
	}
	if err := s.store.AddAdminLog(entry); err != nil {
		logger.Error("Failed to write admin log", "action", action, "target", targetID, "error", err)
	}
}

func (s *Service) ListUsers(a models.Admin, page, limit int, search string) (models.UserPage, error) {
	if err := s.require(a, constants.PermManageUsers); err != nil {
		return models.UserPage{}, err
	}
	return s.store.ListUsers(page, limit, strings.TrimSpace(search))
}

func (s *Service) BanUser(a models.Admin, userID, reason string) error {
	if err := s.require(a, constants.PermManageUsers); err != nil {
		return err
	}
	if err := s.store.SetUserBan(userID, true, reason, utils.FormatTimestamp(s.clock.Now())); err != nil {
		return err
	}
	s.record(a, constants.ActionBanUser, "user", userID, map[string]string{"reason": reason})
	return nil
}

func (s *Service) UnbanUser(a models.Admin, userID string) error {
	if err := s.require(a, constants.PermManageUsers); err != nil {
		return err
	}
	if err := s.store.SetUserBan(userID, false, "", ""); err != nil {
		return err
	}
	s.record(a, constants.ActionUnbanUser, "user", userID, nil)
	return nil
}

func (s *Service) DeleteUser(a models.Admin, userID string) error {
	if err := s.require(a, constants.PermManageUsers); err != nil {
		return err
	}
	u, err := s.store.GetUser(userID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteUser(userID); err != nil {
		return err
	}
	s.record(a, constants.ActionDeleteUser, "user", userID, map[string]string{"username": u.Username})
	return nil
}

// ConfessionFilter narrows a confession listing. Zero fields match everything.
type ConfessionFilter struct {
	Day    models.Day
	UserID string
	// Search matches text, username or partner name, case-insensitively.
	Search string
}

func (f ConfessionFilter) match(r models.ConfessionRecord) bool {
	if f.Day != "" && r.Day != f.Day {
		return false
	}
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hay := strings.ToLower(r.Text + "\n" + r.Username + "\n" + r.PartnerName)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

func (s *Service) ListConfessions(a models.Admin, f ConfessionFilter) ([]models.ConfessionRecord, error) {
	if err := s.require(a, constants.PermModerate); err != nil {
		return nil, err
	}
	all, err := s.store.ListConfessions()
	if err != nil {
		return nil, err
	}
	out := make([]models.ConfessionRecord, 0, len(all))
	for _, r := range all {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) DeleteConfession(a models.Admin, userID, confessionID string) error {
	if err := s.require(a, constants.PermModerate); err != nil {
		return err
	}
	if err := s.store.DeleteConfession(userID, confessionID); err != nil {
		return err
	}
	s.record(a, constants.ActionDeleteConfession, "confession", confessionID, map[string]string{"userId": userID})
	return nil
}

func (s *Service) Logs(a models.Admin, limit int) ([]models.AdminLog, error) {
	if err := s.require(a, constants.PermViewAnalytics); err != nil {
		return nil, err
	}
	return s.store.ListAdminLogs(limit)
}

// Stats counts a creator as active when seen within the last week.
func (s *Service) Stats(a models.Admin) (models.Stats, error) {
	if err := s.require(a, constants.PermViewAnalytics); err != nil {
		return models.Stats{}, err
	}
	since := s.clock.Now().Add(-constants.ActiveUserWindow)
	return s.store.Stats(utils.FormatTimestamp(since))
}

// ForceMode sets the global preview override for every partner session.
func (s *Service) ForceMode(ctx context.Context, a models.Admin, p *unlock.PreviewContext, mode unlock.Mode) error {
	if err := s.require(a, constants.PermManageSettings); err != nil {
		return err
	}
	if err := p.SetDemoMode(ctx, mode == unlock.ModeDemo, s.clock.Now()); err != nil {
		return err
	}
	s.record(a, constants.ActionForceMode, "settings", unlock.KeyAdminForcedMode, map[string]string{"mode": string(mode)})
	return nil
}

// ClearMode removes the global preview override.
func (s *Service) ClearMode(ctx context.Context, a models.Admin, p *unlock.PreviewContext) error {
	if err := s.require(a, constants.PermManageSettings); err != nil {
		return err
	}
	if err := p.ClearAdminOverride(ctx); err != nil {
		return err
	}
	s.record(a, constants.ActionClearMode, "settings", unlock.KeyAdminForcedMode, nil)
	return nil
}
