package admin

import (
	"errors"

	"github.com/julianstephens/valweek/internal/auth"
	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/models"
)

// ErrBootstrapDone is returned when bootstrapping after an admin exists.
var ErrBootstrapDone = errors.New("an admin already exists, log in to create more")

// Bootstrap creates the first admin, always as a super admin. It fails once
// any admin exists.
func (s *Service) Bootstrap(accounts *auth.Service, in auth.AdminInput) (models.Admin, error) {
	n, err := s.store.CountAdmins()
	if err != nil {
		return models.Admin{}, err
	}
	if n > 0 {
		return models.Admin{}, ErrBootstrapDone
	}

	in.Role = constants.RoleSuperAdmin
	created, err := accounts.CreateAdmin(in)
	if err != nil {
		return models.Admin{}, err
	}
	s.record(created, constants.ActionCreateAdmin, "admin", created.ID, map[string]string{"role": created.Role, "bootstrap": "true"})
	return created, nil
}

// AddAdmin creates another admin on behalf of a.
func (s *Service) AddAdmin(a models.Admin, accounts *auth.Service, in auth.AdminInput) (models.Admin, error) {
	if err := s.require(a, constants.PermManageAdmins); err != nil {
		return models.Admin{}, err
	}
	created, err := accounts.CreateAdmin(in)
	if err != nil {
		return models.Admin{}, err
	}
	s.record(a, constants.ActionCreateAdmin, "admin", created.ID, map[string]string{"username": created.Username, "role": created.Role})
	return created, nil
}

// ChangePassword replaces a's own password.
func (s *Service) ChangePassword(a models.Admin, accounts *auth.Service, current, next string) error {
	if err := accounts.ChangeAdminPassword(a.ID, current, next); err != nil {
		return err
	}
	s.record(a, constants.ActionChangePassword, "admin", a.ID, nil)
	return nil
}
