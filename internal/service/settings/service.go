package settings

import (
	"context"
	"encoding/json"
	"fmt"

	domain "tg-control-bot/internal/domain/settings"
)

// Service exposes typed access to the key/value settings table.
type Service struct {
	repo domain.Repository
}

func NewService(repo domain.Repository) *Service {
	return &Service{repo: repo}
}

// EnsureDefaults seeds the maintenance flag once; an existing value wins over
// the configured default.
func (s *Service) EnsureDefaults(ctx context.Context, maintenance bool) error {
	_, ok, err := s.repo.Get(ctx, domain.KeyMaintenance)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.SetMaintenance(ctx, maintenance)
}

// Maintenance reports the flag; an absent or unparsable value reads as false.
func (s *Service) Maintenance(ctx context.Context) (bool, error) {
	raw, ok, err := s.repo.Get(ctx, domain.KeyMaintenance)
	if err != nil || !ok {
		return false, err
	}
	var v bool
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return false, nil
	}
	return v, nil
}

func (s *Service) SetMaintenance(ctx context.Context, on bool) error {
	b, err := json.Marshal(on)
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, domain.KeyMaintenance, string(b)); err != nil {
		return fmt.Errorf("set maintenance: %w", err)
	}
	return nil
}

// ToggleMaintenance flips the flag and returns the new value.
func (s *Service) ToggleMaintenance(ctx context.Context) (bool, error) {
	cur, err := s.Maintenance(ctx)
	if err != nil {
		return false, err
	}
	next := !cur
	if err := s.SetMaintenance(ctx, next); err != nil {
		return false, err
	}
	return next, nil
}
