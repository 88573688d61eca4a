package user

import "context"

//go:generate mockgen -source=repo.go -destination=mock_repo.go -package=user

type Repo interface {
	FindAll(ctx context.Context, q Query) ([]User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id int64) error
}
