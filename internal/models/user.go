package models

import (
	"math"

	"github.com/julianstephens/valweek/internal/constants"
)

// User is a registered creator.
type User struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	PartnerName  string  `json:"partnerName"`
	PinHash      string  `json:"-"`
	IsBanned     bool    `json:"isBanned"`
	BannedAt     *string `json:"bannedAt,omitempty"`
	BannedReason *string `json:"bannedReason,omitempty"`
	LastActive   *string `json:"lastActive,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// UserSummary is a User row as listed in the admin console.
type UserSummary struct {
	User
	IsActive         bool `json:"isActive"`
	ConfessionsCount int  `json:"confessionsCount"`
}

// UserPage is one page of an admin user listing.
type UserPage struct {
	Users []UserSummary `json:"users"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// Admin is an operator of the admin console.
type Admin struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	Permissions  map[string]bool `json:"permissions"`
	IsActive     bool            `json:"isActive"`
	LastLogin    *string         `json:"lastLogin,omitempty"`
	PasswordHash string          `json:"-"`
	CreatedAt    string          `json:"createdAt"`
}

// HasPermission reports whether a may perform perm. Super admins may do anything.
func (a Admin) HasPermission(perm string) bool {
	if a.Role == constants.RoleSuperAdmin {
		return true
	}
	return a.Permissions[perm]
}

// AdminLog records one admin mutation.
type AdminLog struct {
	ID         string            `json:"id"`
	AdminID    string            `json:"adminId"`
	Action     string            `json:"action"`
	TargetType string            `json:"targetType,omitempty"`
	TargetID   string            `json:"targetId,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	CreatedAt  string            `json:"createdAt"`
}

// ConfessionRecord is a confession joined with its owner, for moderation.
type ConfessionRecord struct {
	Confession
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	PartnerName string `json:"partnerName"`
}

// Stats is the admin analytics snapshot.
type Stats struct {
	TotalUsers            int     `json:"totalUsers"`
	ActiveUsers           int     `json:"activeUsers"`
	TotalConfessions      int     `json:"totalConfessions"`
	AvgConfessionsPerUser float64 `json:"avgConfessionsPerUser"`
}

// NewStats builds a Stats snapshot, rounding the per-user average to one decimal.
func NewStats(totalUsers, activeUsers, totalConfessions int) Stats {
	s := Stats{
		TotalUsers:       totalUsers,
		ActiveUsers:      activeUsers,
		TotalConfessions: totalConfessions,
	}
	if totalUsers > 0 {
		avg := float64(totalConfessions) / float64(totalUsers)
		s.AvgConfessionsPerUser = math.Round(avg*10) / 10
	}
	return s
}
