package user

import (
	"context"
	"fmt"
	"log/slog"
)

const maxListLimit = 500

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) FindAll(ctx context.Context, q Query) ([]User, error) {
	if q.Limit <= 0 || q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	slog.DebugContext(ctx, "Fetching users", "ids", q.IDs, "limit", q.Limit)

	users, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (User, error) {
	slog.DebugContext(ctx, "Fetching user", "user_id", id)
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, u User) (User, error) {
	if err := u.Validate(); err != nil {
		return User{}, err
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	slog.InfoContext(ctx, "User created", "user_id", created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, u User) (User, error) {
	if err := u.Validate(); err != nil {
		return User{}, err
	}
	u.ID = id

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	slog.InfoContext(ctx, "User updated", "user_id", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	slog.InfoContext(ctx, "User deleted", "user_id", id)
	return nil
}
