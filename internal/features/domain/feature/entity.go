package feature

import (
	"errors"
	"strings"
	"time"
)

// DefaultEnvironment is used when a toggle or a lookup names no environment.
const DefaultEnvironment = "dev"

var (
	ErrNotFound = errors.New("feature toggle not found")
	ErrInvalid  = errors.New("invalid feature toggle")
	ErrConflict = errors.New("feature toggle already exists in environment")
)

// Feature is a named switch scoped to one environment (dev, stage, prod).
type Feature struct {
	ID          int64
	Name        string
	Enabled     bool
	Description string
	Environment string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (f Feature) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.Join(ErrInvalid, errors.New("name is required"))
	}
	if len(f.Description) > 500 {
		return errors.Join(ErrInvalid, errors.New("description exceeds 500 characters"))
	}
	return nil
}

// Patch is a partial update; nil fields are left as they are.
type Patch struct {
	Name        *string
	Enabled     *bool
	Description *string
	Environment *string
}

func (p Patch) apply(f Feature) Feature {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Enabled != nil {
		f.Enabled = *p.Enabled
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Environment != nil {
		f.Environment = *p.Environment
	}
	return f
}

// Query filters FindAll. Empty fields match everything.
type Query struct {
	Environment string
	Enabled     *bool
}

func environmentOrDefault(env string) string {
	if env = strings.TrimSpace(env); env == "" {
		return DefaultEnvironment
	}
	return env
}
