package unlock

import (
	"context"
	"strconv"
	"time"

	"github.com/julianstephens/valweek/internal/kv"
	"github.com/julianstephens/valweek/internal/logger"
)

// Mode is the gating basis a viewer sees: the real calendar or the demo countdown.
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

// ParseMode accepts "demo" and "live" only.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeLive, ModeDemo:
		return Mode(s), true
	default:
		return "", false
	}
}

// ModeSource says where a resolved Mode came from.
type ModeSource int

const (
	SourceDefault ModeSource = iota
	SourceSession
	SourceAdmin
)

const (
	// KeyAdminForcedMode holds the global admin override.
	KeyAdminForcedMode = "admin_forced_mode"
	// KeyDemoEpoch holds when an admin last forced demo mode. Session timers
	// that started earlier are restarted on their next read.
	KeyDemoEpoch = "admin_demo_epoch"

	keyDemoStart      = "demo_start_time"
	keyModePreference = "user_mode_preference"
)

// PreviewContext owns one viewer session's preview state. It is the only
// thing that reads or writes the demo timer, the session's mode preference
// and the global admin override.
type PreviewContext struct {
	sessionID string
	sessions  kv.Store
	global    kv.Store
}

// NewPreviewContext binds sessionID to its stores. sessions holds per-session
// slots; global holds the admin override and may be the same store.
func NewPreviewContext(sessionID string, sessions, global kv.Store) *PreviewContext {
	if global == nil {
		global = sessions
	}
	return &PreviewContext{
		sessionID: sessionID,
		sessions:  sessions,
		global:    global,
	}
}

func (p *PreviewContext) SessionID() string {
	return p.sessionID
}

func (p *PreviewContext) key(name string) string {
	return "session:" + p.sessionID + ":" + name
}

// AdminMode returns the admin override, if one is set.
func (p *PreviewContext) AdminMode(ctx context.Context) (Mode, bool) {
	v, ok, err := p.global.Get(ctx, KeyAdminForcedMode)
	if err != nil {
		logger.Warn("Failed to read admin mode override", "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	return ParseMode(v)
}

// Preference returns the session's stored mode preference, if any.
func (p *PreviewContext) Preference(ctx context.Context) (Mode, bool) {
	v, ok, err := p.sessions.Get(ctx, p.key(keyModePreference))
	if err != nil {
		logger.Warn("Failed to read mode preference", "session", p.sessionID, "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	return ParseMode(v)
}

// ApplyURL records a mode requested through the URL as the session
// preference. mode must be "demo" or "live"; otherwise legacyDemo
// (the old ?demo=true) stores demo. Anything else is ignored.
func (p *PreviewContext) ApplyURL(ctx context.Context, mode string, legacyDemo bool) error {
	m, ok := ParseMode(mode)
	if !ok {
		if !legacyDemo {
			return nil
		}
		m = ModeDemo
	}
	return p.sessions.Set(ctx, p.key(keyModePreference), string(m))
}

// Mode resolves the session's mode: admin override, then session
// preference, then live.
func (p *PreviewContext) Mode(ctx context.Context) (Mode, ModeSource) {
	if m, ok := p.AdminMode(ctx); ok {
		return m, SourceAdmin
	}
	if m, ok := p.Preference(ctx); ok {
		return m, SourceSession
	}
	return ModeLive, SourceDefault
}

// ResolveMode applies the URL parameters and then resolves the mode.
func (p *PreviewContext) ResolveMode(ctx context.Context, urlMode string, legacyDemo bool) Mode {
	if _, admin := p.AdminMode(ctx); !admin {
		if err := p.ApplyURL(ctx, urlMode, legacyDemo); err != nil {
			logger.Warn("Failed to store mode preference", "session", p.sessionID, "error", err)
		}
	}
	m, _ := p.Mode(ctx)
	return m
}

// IsUserPreview reports whether the session chose demo itself, as opposed
// to having it forced by an admin.
func (p *PreviewContext) IsUserPreview(ctx context.Context) bool {
	m, src := p.Mode(ctx)
	return src == SourceSession && m == ModeDemo
}

// EffectiveActive returns the isActive flag to gate with. An admin override
// or an explicit session preference wins over the creator's own flag.
func (p *PreviewContext) EffectiveActive(ctx context.Context, configActive bool) bool {
	m, src := p.Mode(ctx)
	if src == SourceDefault {
		return configActive
	}
	return m == ModeLive
}

// SetDemoMode sets the global admin override. Enabling demo restarts every
// session's timer, this one at now and the others on their next read;
// disabling it clears this session's timer.
func (p *PreviewContext) SetDemoMode(ctx context.Context, enabled bool, now time.Time) error {
	if enabled {
		if err := p.global.Set(ctx, KeyAdminForcedMode, string(ModeDemo)); err != nil {
			return err
		}
		if err := p.global.Set(ctx, KeyDemoEpoch, formatMillis(now)); err != nil {
			return err
		}
		return p.sessions.Set(ctx, p.key(keyDemoStart), formatMillis(now))
	}
	if err := p.global.Set(ctx, KeyAdminForcedMode, string(ModeLive)); err != nil {
		return err
	}
	return p.sessions.Delete(ctx, p.key(keyDemoStart))
}

// ClearAdminOverride lets sessions choose their own mode again.
func (p *PreviewContext) ClearAdminOverride(ctx context.Context) error {
	return p.global.Delete(ctx, KeyAdminForcedMode)
}

// DemoStart returns the session's demo timer baseline, creating it at now
// when absent or when it predates the last admin demo restart. created is
// true only for the call that set it.
func (p *PreviewContext) DemoStart(ctx context.Context, now time.Time) (start time.Time, created bool, err error) {
	key := p.key(keyDemoStart)
	v, created, err := p.sessions.SetIfAbsent(ctx, key, formatMillis(now))
	if err != nil {
		return time.Time{}, false, err
	}
	ms, perr := strconv.ParseInt(v, 10, 64)
	if perr != nil {
		// Unreadable baseline: start over.
		logger.Warn("Resetting corrupt demo start", "session", p.sessionID, "value", v)
		return p.restartDemo(ctx, now)
	}
	start = time.UnixMilli(ms)
	if !created {
		if epoch, ok := p.demoEpoch(ctx); ok && start.Before(epoch) {
			return p.restartDemo(ctx, now)
		}
	}
	return start, created, nil
}

func (p *PreviewContext) restartDemo(ctx context.Context, now time.Time) (time.Time, bool, error) {
	if err := p.sessions.Set(ctx, p.key(keyDemoStart), formatMillis(now)); err != nil {
		return time.Time{}, false, err
	}
	return now, true, nil
}

func (p *PreviewContext) demoEpoch(ctx context.Context) (time.Time, bool) {
	v, ok, err := p.global.Get(ctx, KeyDemoEpoch)
	if err != nil {
		logger.Warn("Failed to read demo restart time", "error", err)
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// ResetDemo discards the demo timer so the next read starts a new countdown.
func (p *PreviewContext) ResetDemo(ctx context.Context) error {
	return p.sessions.Delete(ctx, p.key(keyDemoStart))
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
