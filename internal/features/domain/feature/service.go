package feature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

type cacheKey struct {
	name, environment string
}

// Service manages toggles. Lookups are cached until the next write.
type Service struct {
	repo Repo

	mu    sync.RWMutex
	cache map[cacheKey]bool
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, cache: make(map[cacheKey]bool)}
}

// IsEnabled reports whether name is switched on in environment. Unknown
// toggles are off.
func (s *Service) IsEnabled(ctx context.Context, name, environment string) (bool, error) {
	key := cacheKey{name: name, environment: environmentOrDefault(environment)}

	s.mu.RLock()
	enabled, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return enabled, nil
	}

	slog.DebugContext(ctx, "Checking feature", "feature", key.name, "environment", key.environment)
	f, err := s.repo.FindByName(ctx, key.name, key.environment)
	switch {
	case errors.Is(err, ErrNotFound):
		enabled = false
	case err != nil:
		return false, fmt.Errorf("find feature %s: %w", key.name, err)
	default:
		enabled = f.Enabled
	}

	s.mu.Lock()
	s.cache[key] = enabled
	s.mu.Unlock()
	return enabled, nil
}

func (s *Service) FindAll(ctx context.Context, q Query) ([]Feature, error) {
	features, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find features: %w", err)
	}
	return features, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (Feature, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, f Feature) (Feature, error) {
	f.Environment = environmentOrDefault(f.Environment)
	if err := f.Validate(); err != nil {
		return Feature{}, err
	}
	defer s.invalidate()

	created, err := s.repo.Create(ctx, f)
	if err != nil {
		return Feature{}, fmt.Errorf("create feature: %w", err)
	}
	slog.InfoContext(ctx, "Feature created",
		"feature", created.Name, "environment", created.Environment, "enabled", created.Enabled)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, p Patch) (Feature, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Feature{}, err
	}

	f := p.apply(existing)
	f.Environment = environmentOrDefault(f.Environment)
	if err := f.Validate(); err != nil {
		return Feature{}, err
	}
	defer s.invalidate()

	updated, err := s.repo.Update(ctx, f)
	if err != nil {
		return Feature{}, fmt.Errorf("update feature: %w", err)
	}
	slog.InfoContext(ctx, "Feature updated", "feature_id", id)
	return updated, nil
}

// SetEnabled switches the toggle name in environment on or off.
func (s *Service) SetEnabled(ctx context.Context, name, environment string, enabled bool) (Feature, error) {
	f, err := s.repo.FindByName(ctx, name, environmentOrDefault(environment))
	if err != nil {
		return Feature{}, err
	}
	f.Enabled = enabled
	defer s.invalidate()

	updated, err := s.repo.Update(ctx, f)
	if err != nil {
		return Feature{}, fmt.Errorf("toggle feature: %w", err)
	}
	slog.InfoContext(ctx, "Feature toggled",
		"feature", updated.Name, "environment", updated.Environment, "enabled", enabled)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	defer s.invalidate()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete feature: %w", err)
	}
	slog.InfoContext(ctx, "Feature deleted", "feature_id", id)
	return nil
}

func (s *Service) invalidate() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}
