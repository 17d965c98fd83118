package storage

import (
	"context"

	"github.com/julianstephens/valweek/internal/kv"
)

// SettingsKV exposes the settings table as a kv.Store, so preview sessions
// and admin overrides outlive a single CLI invocation.
type SettingsKV struct {
	p Provider
}

var _ kv.Store = (*SettingsKV)(nil)

func NewSettingsKV(p Provider) *SettingsKV {
	return &SettingsKV{p: p}
}

func (s *SettingsKV) Get(_ context.Context, key string) (string, bool, error) {
	return s.p.GetSetting(key)
}

func (s *SettingsKV) Set(_ context.Context, key, value string) error {
	return s.p.SetSetting(key, value)
}

func (s *SettingsKV) SetIfAbsent(_ context.Context, key, value string) (string, bool, error) {
	return s.p.SetSettingIfAbsent(key, value)
}

func (s *SettingsKV) Delete(_ context.Context, key string) error {
	return s.p.DeleteSetting(key)
}

// Close is a no-op; the provider is closed by its owner.
func (s *SettingsKV) Close() error {
	return nil
}
