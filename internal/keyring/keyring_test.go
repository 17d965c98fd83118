package keyring

import (
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	// Use mock keyring for testing
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/testdb?sslmode=disable"

	// Test Set
	err := SetConnectionString(testConnStr)
	if err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	// Test Get
	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}

	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	err := SetConnectionString("")
	if err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestGetConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()

	// Ensure nothing is stored
	_ = DeleteConnectionString()

	_, err := GetConnectionString()
	if err != ErrNotFound {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/testdb"

	// First, set a connection string
	err := SetConnectionString(testConnStr)
	if err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	// Delete it
	err = DeleteConnectionString()
	if err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}

	// Verify it's gone
	_, err = GetConnectionString()
	if err != ErrNotFound {
		t.Errorf("After DeleteConnectionString(), GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()

	// Ensure nothing is stored
	_ = DeleteConnectionString()

	err := DeleteConnectionString()
	if err != ErrNotFound {
		t.Errorf("DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	available := IsAvailable()
	// In mock mode, keyring should be available
	if !available {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}

func TestConnectionStringAndSessionsAreSeparate(t *testing.T) {
	gokeyring.MockInit()
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

	if err := SetConnectionString("postgres://valweek@localhost:5432/valweek"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := SaveSession(CreatorSession, Session{ID: "u1", Username: "arjun", LastSeen: now}); err != nil {
		t.Fatalf("SaveSession(creator) failed: %v", err)
	}
	if err := SaveSession(AdminSession, Session{ID: "a1", Username: "root", LastSeen: now}); err != nil {
		t.Fatalf("SaveSession(admin) failed: %v", err)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if err := ClearSession(AdminSession); err != nil {
		t.Fatalf("ClearSession(admin) failed: %v", err)
	}

	s, err := LoadSession(CreatorSession, now)
	if err != nil || s.Username != "arjun" {
		t.Errorf("creator session = (%+v, %v), want arjun", s, err)
	}
	if _, err := LoadSession(AdminSession, now); err != ErrNotFound {
		t.Errorf("admin session error = %v, want %v", err, ErrNotFound)
	}
}
