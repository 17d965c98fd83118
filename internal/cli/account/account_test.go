package account

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/cli/clitest"
	"github.com/julianstephens/valweek/internal/keyring"
	"github.com/julianstephens/valweek/internal/storage"
)

func register(t *testing.T, env *clitest.Env) {
	t.Helper()
	cmd := &RegisterCmd{Username: "Arjun", Partner: "Meera", PIN: "1234"}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("register failed: %v", err)
	}
}

func TestRegisterCmd(t *testing.T) {
	env := clitest.New(t)
	register(t, env)

	user, err := env.Ctx.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Username != "arjun" || user.PartnerName != "Meera" {
		t.Errorf("user = %+v, want arjun/Meera", user)
	}

	cfg, err := env.Store.GetUserConfig(user.ID)
	if err != nil {
		t.Fatalf("GetUserConfig() error = %v", err)
	}
	if cfg.IsActive {
		t.Error("new creators should start in preview")
	}
}

func TestRegisterCmd_Errors(t *testing.T) {
	env := clitest.New(t)
	register(t, env)

	tests := []struct {
		name string
		cmd  *RegisterCmd
	}{
		{"duplicate username", &RegisterCmd{Username: "ARJUN", Partner: "X", PIN: "1234"}},
		{"short pin", &RegisterCmd{Username: "ravi", Partner: "X", PIN: "12"}},
		{"non-numeric pin", &RegisterCmd{Username: "ravi", Partner: "X", PIN: "abcd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(env.Ctx); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoginLogout(t *testing.T) {
	env := clitest.New(t)
	register(t, env)

	if err := (&LogoutCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := env.Ctx.CurrentUser(); !errors.Is(err, cli.ErrNotLoggedIn) {
		t.Errorf("CurrentUser() after logout = %v, want ErrNotLoggedIn", err)
	}

	if err := (&LoginCmd{Username: "arjun", PIN: "0000"}).Run(env.Ctx); !errors.Is(err, storage.ErrInvalidCredentials) {
		t.Errorf("wrong PIN: got %v, want ErrInvalidCredentials", err)
	}
	if err := (&LoginCmd{Username: "arjun", PIN: "1234"}).Run(env.Ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := (&WhoamiCmd{}).Run(env.Ctx); err != nil {
		t.Errorf("whoami failed: %v", err)
	}
}

func TestSessionExpires(t *testing.T) {
	env := clitest.New(t)
	register(t, env)

	env.Clock.Advance(keyring.CreatorSession.Timeout() + time.Minute)
	if _, err := env.Ctx.CurrentUser(); !errors.Is(err, keyring.ErrSessionExpired) {
		t.Errorf("CurrentUser() = %v, want ErrSessionExpired", err)
	}
}

func TestBannedCreatorIsLoggedOut(t *testing.T) {
	env := clitest.New(t)
	register(t, env)

	user, err := env.Store.GetUserByUsername("arjun")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if err := env.Store.SetUserBan(user.ID, true, "spam", "2026-02-09T12:00:00Z"); err != nil {
		t.Fatalf("SetUserBan() error = %v", err)
	}

	if _, err := env.Ctx.CurrentUser(); !errors.Is(err, storage.ErrBanned) {
		t.Errorf("CurrentUser() = %v, want ErrBanned", err)
	}
	if _, err := keyring.LoadSession(keyring.CreatorSession, env.Clock.Now()); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("session survived ban: %v", err)
	}
}
