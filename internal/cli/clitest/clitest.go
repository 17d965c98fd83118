// Package clitest builds command contexts backed by a throwaway SQLite
// database and a mock keyring.
package clitest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/valweek/internal/auth"
	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/config"
	vkeyring "github.com/julianstephens/valweek/internal/keyring"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage/sqlite"
	"github.com/julianstephens/valweek/internal/unlock"
)

// Now is the default clock time: the afternoon of Chocolate Day 2026, UTC.
var Now = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

// Env is a ready command context and its handles.
type Env struct {
	Ctx    *cli.Context
	Store  *sqlite.Store
	Clock  *unlock.ManualClock
	DBPath string
}

// New returns an initialized Env. The keyring is mocked for the test.
func New(t *testing.T) *Env {
	t.Helper()
	keyring.MockInit()

	dbPath := filepath.Join(t.TempDir(), "valweek.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.Schedule.Timezone = "UTC"
	cfg.Schedule.Year = 2026
	cfg.Database.Path = dbPath

	clock := unlock.NewManualClock(Now)
	ctx, err := cli.NewContext(store, &cfg, clock)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	// bcrypt's minimum cost keeps the suite fast.
	ctx.Auth = auth.NewService(store, auth.WithClock(clock.Now), auth.WithHashCost(4))

	return &Env{Ctx: ctx, Store: store, Clock: clock, DBPath: dbPath}
}

// Login registers a creator and starts their session.
func (e *Env) Login(t *testing.T, username, partner string) models.User {
	t.Helper()
	user, err := e.Ctx.Auth.RegisterUser(auth.RegisterInput{Username: username, PartnerName: partner, PIN: "1234"})
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	err = vkeyring.SaveSession(vkeyring.CreatorSession, vkeyring.Session{ID: user.ID, Username: user.Username, LastSeen: e.Clock.Now()})
	if err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	return user
}
