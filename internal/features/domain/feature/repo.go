package feature

import "context"

//go:generate mockgen -source=repo.go -destination=mock_repo.go -package=feature

type Repo interface {
	FindAll(ctx context.Context, q Query) ([]Feature, error)
	FindByID(ctx context.Context, id int64) (Feature, error)
	FindByName(ctx context.Context, name, environment string) (Feature, error)
	Create(ctx context.Context, f Feature) (Feature, error)
	Update(ctx context.Context, f Feature) (Feature, error)
	Delete(ctx context.Context, id int64) error
}
