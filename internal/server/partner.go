package server

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/valweek/internal/confession"
	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/unlock"
	"github.com/julianstephens/valweek/internal/utils"
)

type dayInfo struct {
	Day      models.Day `json:"day"`
	Title    string     `json:"title"`
	Emoji    string     `json:"emoji"`
	UnlockAt *string    `json:"unlockAt,omitempty"`
}

type partnerView struct {
	SessionID     string            `json:"sessionId"`
	UserID        string            `json:"userId"`
	PartnerName   string            `json:"partnerName"`
	Day           models.Day        `json:"day"`
	Title         string            `json:"title"`
	Content       models.DayContent `json:"content"`
	Mode          unlock.Mode       `json:"mode"`
	PreviewBanner bool              `json:"previewBanner"` // viewer chose demo mode themselves
	Locked        bool              `json:"locked"`
	RemainingMs   int64             `json:"remainingMs"`
	Remaining     string            `json:"remaining"`
	UnlockAt      *string           `json:"unlockAt,omitempty"`
	DaysLeft      int               `json:"daysLeft"`
	Date          string            `json:"date"`
}

type confessionRequest struct {
	Day         models.Day              `json:"day" validate:"required"`
	SessionID   string                  `json:"sessionId"`
	Text        string                  `json:"text" validate:"required_without=Interaction"`
	Interaction *confession.Interaction `json:"interaction"`
}

func (s *Server) handleListDays(c *fiber.Ctx) error {
	schedule := s.deps.Resolver.Schedule()
	days := make([]dayInfo, 0, len(models.AllDays()))
	for _, d := range models.AllDays() {
		info := dayInfo{Day: d, Title: d.Title(), Emoji: d.Emoji()}
		if at, ok := schedule.UnlockAt(d); ok {
			ts := utils.FormatTimestamp(at)
			info.UnlockAt = &ts
		}
		days = append(days, info)
	}
	return c.JSON(fiber.Map{
		"data": days,
		"meta": fiber.Map{"count": len(days)},
	})
}

func (s *Server) loadPartner(userID string) (models.User, models.ValentineConfig, error) {
	user, err := s.deps.Store.GetUser(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, models.ValentineConfig{}, fiber.NewError(fiber.StatusNotFound, "valentine not found")
		}
		return models.User{}, models.ValentineConfig{}, fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("load user: %v", err))
	}
	cfg, err := s.deps.Store.GetUserConfig(userID)
	if err != nil {
		return models.User{}, models.ValentineConfig{}, fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("load config: %v", err))
	}
	return user, cfg, nil
}

func (s *Server) handleGetPartner(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sid := sessionID(c)

	user, cfg, err := s.loadPartner(c.Params("userId"))
	if err != nil {
		return err
	}

	preview := unlock.NewPreviewContext(sid, s.deps.Sessions, s.deps.Global)
	preview.ResolveMode(ctx, c.Query("mode"), c.QueryBool("demo"))
	active := preview.EffectiveActive(ctx, cfg.IsActive)

	now := s.deps.Resolver.Clock().Now()
	route := unlock.ResolveRoute(unlock.RouteQuery{
		Day:     c.Query("day"),
		NextDay: c.QueryBool("nextDay"),
		SimDate: c.Query("simDate"),
	}, now)

	st := s.deps.Resolver.Status(ctx, preview, route.Day, active)

	mode := unlock.ModeDemo
	if active {
		mode = unlock.ModeLive
	}
	s.deps.Metrics.RecordUnlock(string(route.Day), string(mode), st.Unlocked)

	view := partnerView{
		SessionID:     sid,
		UserID:        user.ID,
		PartnerName:   user.PartnerName,
		Day:           route.Day,
		Title:         route.Day.Title(),
		Content:       models.ContentFor(cfg.Days, route.Day),
		Mode:          mode,
		PreviewBanner: preview.IsUserPreview(ctx),
		Locked:        route.Locked || !st.Unlocked,
		RemainingMs:   st.Remaining.Milliseconds(),
		Remaining:     unlock.FormatRemaining(st.Remaining).String(),
		DaysLeft:      unlock.DaysLeft(route.Date),
		Date:          route.Date.Format(constants.DateFormat),
	}
	if !st.UnlockAt.IsZero() {
		ts := utils.FormatTimestamp(st.UnlockAt)
		view.UnlockAt = &ts
	}

	return c.JSON(fiber.Map{"data": view})
}

func (s *Server) handleSaveConfession(c *fiber.Ctx) error {
	var req confessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Interaction != nil && req.Interaction.Day == "" {
		req.Interaction.Day = req.Day
	}
	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !req.Day.IsThemed() {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("day %q has no confession", req.Day))
	}

	userID := c.Params("userId")
	if _, _, err := s.loadPartner(userID); err != nil {
		return err
	}

	text := req.Text
	if in := req.Interaction; in != nil {
		if in.Day != req.Day {
			return fiber.NewError(fiber.StatusBadRequest, "interaction day does not match confession day")
		}
		encoded, err := confession.Encode(*in)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		text = encoded
	}

	session := req.SessionID
	if session == "" {
		session = sessionID(c)
	}
	now := s.deps.Resolver.Clock().Now()
	entry := models.Confession{
		ID:   models.SessionConfessionID(session, req.Day),
		Date: utils.FormatTimestamp(now),
		Day:  req.Day,
		Text: text,
	}

	// Saves are fire-and-forget: the partner flow continues either way.
	ok := storage.SaveConfessionQuietly(s.deps.Store, userID, entry)
	s.deps.Metrics.RecordConfessionSave(string(req.Day), ok)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{"id": entry.ID, "day": entry.Day, "date": entry.Date},
	})
}
