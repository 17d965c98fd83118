// Package auth registers and logs in creators and admins. PINs and
// passwords are stored as bcrypt hashes.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/logger"
	"github.com/julianstephens/valweek/internal/models"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/utils"
)

// RegisterInput is a new creator account.
type RegisterInput struct {
	Username    string `validate:"required,min=3,max=32,username"`
	PartnerName string `validate:"required,max=64"`
	PIN         string `validate:"required,pin"`
}

// AdminInput is a new admin account.
type AdminInput struct {
	Username string `validate:"required,min=3,max=32,username"`
	Email    string `validate:"omitempty,email"`
	Password string `validate:"required,min=8,max=72"`
	Role     string `validate:"required,oneof=admin super_admin moderator"`
}

type Service struct {
	store    storage.Provider
	validate *Validator
	now      func() time.Time
	cost     int
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:    store,
		validate: NewValidator(),
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeUsername trims and lower-cases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// RegisterUser validates in, hashes the PIN and creates the creator with a
// default config.
func (s *Service) RegisterUser(in RegisterInput) (models.User, error) {
	in.Username = NormalizeUsername(in.Username)
	in.PartnerName = strings.TrimSpace(in.PartnerName)
	if err := s.validate.Struct(in); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.PIN), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash PIN: %w", err)
	}

	now := utils.FormatTimestamp(s.now())
	u := models.User{
		ID:          uuid.NewString(),
		Username:    in.Username,
		PartnerName: in.PartnerName,
		PinHash:     string(hash),
		LastActive:  &now,
		CreatedAt:   now,
	}
	if err := s.store.CreateUser(u); err != nil {
		return models.User{}, err
	}

	logger.Info("Registered creator", "user", u.ID, "username", u.Username)
	return u, nil
}

// LoginUser checks the PIN of username. Unknown users and wrong PINs both
// return ErrInvalidCredentials; banned users get ErrBanned.
func (s *Service) LoginUser(username, pin string) (models.User, error) {
	u, err := s.store.GetUserByUsername(NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, storage.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PinHash), []byte(pin)) != nil {
		logger.Warn("Failed creator login", "username", u.Username)
		return models.User{}, storage.ErrInvalidCredentials
	}
	if u.IsBanned {
		return models.User{}, storage.ErrBanned
	}

	now := utils.FormatTimestamp(s.now())
	if err := s.store.TouchUser(u.ID, now); err != nil {
		logger.Warn("Failed to update last active", "user", u.ID, "error", err)
	} else {
		u.LastActive = &now
	}
	return u, nil
}

// DefaultPermissions returns the permission set granted to a new admin of role.
func DefaultPermissions(role string) map[string]bool {
	switch role {
	case constants.RoleSuperAdmin:
		return map[string]bool{
			constants.PermManageUsers:    true,
			constants.PermModerate:       true,
			constants.PermViewAnalytics:  true,
			constants.PermManageSettings: true,
			constants.PermManageAdmins:   true,
		}
	case constants.RoleModerator:
		return map[string]bool{
			constants.PermModerate:      true,
			constants.PermViewAnalytics: true,
		}
	default:
		return map[string]bool{
			constants.PermManageUsers:   true,
			constants.PermModerate:      true,
			constants.PermViewAnalytics: true,
		}
	}
}

// CreateAdmin validates in and stores a new active admin.
func (s *Service) CreateAdmin(in AdminInput) (models.Admin, error) {
	in.Username = NormalizeUsername(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return models.Admin{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to hash password: %w", err)
	}

	a := models.Admin{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		Role:         in.Role,
		Permissions:  DefaultPermissions(in.Role),
		IsActive:     true,
		PasswordHash: string(hash),
		CreatedAt:    utils.FormatTimestamp(s.now()),
	}
	if err := s.store.CreateAdmin(a); err != nil {
		return models.Admin{}, err
	}

	logger.Info("Created admin", "admin", a.ID, "username", a.Username, "role", a.Role)
	return a, nil
}

// LoginAdmin checks the password of an active admin and records the login.
func (s *Service) LoginAdmin(username, password string) (models.Admin, error) {
	a, err := s.store.GetAdminByUsername(NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Admin{}, storage.ErrInvalidCredentials
		}
		return models.Admin{}, err
	}
	if !a.IsActive {
		return models.Admin{}, storage.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		logger.Warn("Failed admin login", "username", a.Username)
		return models.Admin{}, storage.ErrInvalidCredentials
	}

	now := utils.FormatTimestamp(s.now())
	if err := s.store.UpdateAdminLogin(a.ID, now); err != nil {
		logger.Warn("Failed to update last login", "admin", a.ID, "error", err)
	} else {
		a.LastLogin = &now
	}
	return a, nil
}

// ChangeAdminPassword replaces the password of adminID after checking current.
func (s *Service) ChangeAdminPassword(adminID, current, next string) error {
	a, err := s.store.GetAdmin(adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(current)) != nil {
		return storage.ErrInvalidCredentials
	}

	in := AdminInput{Username: a.Username, Password: next, Role: a.Role}
	if err := s.validate.Struct(in); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.UpdateAdminPassword(a.ID, string(hash))
}
