package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/unlock"
)

const defaultSession = "cli"

// ErrNotFound is returned for share links that point at no creator.
var ErrNotFound = errors.New("valentine not found")

// RouteFlags are the share link's query parameters plus the viewer session.
type RouteFlags struct {
	Day     string `help:"Open this day directly."`
	NextDay bool   `name:"next-day" help:"Peek at tomorrow's day behind a lock."`
	SimDate string `name:"sim-date" placeholder:"YYYY-MM-DD" help:"Pick the day as if today were this date."`
	Mode    string `enum:",live,demo" default:"" help:"Remember live or demo mode for this session."`
	Demo    bool   `help:"Shorthand for --mode=demo."`
	Session string `default:"cli" help:"Viewer session. Reuse it to keep a preview countdown going."`
	Restart bool   `help:"Start this session's preview countdown over."`
}

// visit is one resolved look at a creator's week.
type visit struct {
	user    models.User
	cfg     models.ValentineConfig
	preview *unlock.PreviewContext
	active  bool
	route   unlock.Route
}

func (f RouteFlags) resolve(ctx *cli.Context, userID string) (*visit, error) {
	user, err := ctx.Store.GetUser(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	cfg, err := ctx.Store.GetUserConfig(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	session := f.Session
	if session == "" {
		session = defaultSession
	}
	c := ctx.Context()
	p := ctx.Preview(session)
	if f.Restart {
		if err := p.ResetDemo(c); err != nil {
			return nil, fmt.Errorf("failed to restart preview: %w", err)
		}
	}
	p.ResolveMode(c, f.Mode, f.Demo)

	return &visit{
		user:    user,
		cfg:     cfg,
		preview: p,
		active:  p.EffectiveActive(c, cfg.IsActive),
		route: unlock.ResolveRoute(unlock.RouteQuery{
			Day:     f.Day,
			NextDay: f.NextDay,
			SimDate: f.SimDate,
		}, ctx.Resolver.Clock().Now()),
	}, nil
}

func (v *visit) day() models.Day {
	return v.route.Day
}

func (v *visit) content() models.DayContent {
	return models.ContentFor(v.cfg.Days, v.route.Day)
}

// status resolves the route's day. Locked routes stay locked.
func (v *visit) status(ctx context.Context, r *unlock.Resolver) unlock.Status {
	st := r.Status(ctx, v.preview, v.route.Day, v.active)
	if v.route.Locked {
		st.Unlocked = false
	}
	return st
}
