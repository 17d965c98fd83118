package admin

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/valweek/internal/auth"
	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/storage"
)

func TestBootstrapAndAddAdmin(t *testing.T) {
	svc, store := setup(t)
	accounts := auth.NewService(store, auth.WithHashCost(bcrypt.MinCost))

	root, err := svc.Bootstrap(accounts, auth.AdminInput{Username: "Root", Password: "hunter22", Role: constants.RoleModerator})
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if root.Role != constants.RoleSuperAdmin {
		t.Errorf("bootstrap role = %q, want super_admin", root.Role)
	}

	if _, err := svc.Bootstrap(accounts, auth.AdminInput{Username: "again", Password: "hunter22"}); !errors.Is(err, ErrBootstrapDone) {
		t.Errorf("second Bootstrap() error = %v, want ErrBootstrapDone", err)
	}

	mod, err := svc.AddAdmin(root, accounts, auth.AdminInput{Username: "mod", Password: "hunter22", Role: constants.RoleModerator})
	if err != nil {
		t.Fatalf("AddAdmin() error = %v", err)
	}
	if _, err := svc.AddAdmin(mod, accounts, auth.AdminInput{Username: "mod2", Password: "hunter22", Role: constants.RoleModerator}); !errors.Is(err, ErrForbidden) {
		t.Errorf("moderator AddAdmin() error = %v, want ErrForbidden", err)
	}

	logs, err := store.ListAdminLogs(10)
	if err != nil {
		t.Fatalf("ListAdminLogs() error = %v", err)
	}
	created := 0
	for _, l := range logs {
		if l.Action == constants.ActionCreateAdmin {
			created++
		}
	}
	if created != 2 {
		t.Errorf("create_admin log entries = %d, want 2", created)
	}
}

func TestChangePassword(t *testing.T) {
	svc, store := setup(t)
	accounts := auth.NewService(store, auth.WithHashCost(bcrypt.MinCost))

	root, err := svc.Bootstrap(accounts, auth.AdminInput{Username: "root", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}

	if err := svc.ChangePassword(root, accounts, "wrong-password", "correcthorse"); !errors.Is(err, storage.ErrInvalidCredentials) {
		t.Errorf("ChangePassword(wrong) error = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(root, accounts, "hunter22", "correcthorse"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := accounts.LoginAdmin("root", "correcthorse"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}
