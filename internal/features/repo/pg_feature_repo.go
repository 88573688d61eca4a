package feature_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecommerce-mesh/internal/features/domain/feature"
	"ecommerce-mesh/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	table           = "feature_toggles"
	uniqueViolation = "23505"
)

var columns = []string{"id", "name", "enabled", "description", "environment", "created_at", "updated_at"}

var returning = "RETURNING " + strings.Join(columns, ", ")

type PgFeatureRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewPgFeatureRepo(pg *postgres.Postgres) feature.Repo {
	return &PgFeatureRepo{db: pg.Pool, builder: pg.Builder}
}

func (r *PgFeatureRepo) FindAll(ctx context.Context, q feature.Query) ([]feature.Feature, error) {
	query := r.builder.Select(columns...).From(table).OrderBy("environment", "name")
	if q.Environment != "" {
		query = query.Where(squirrel.Eq{"environment": q.Environment})
	}
	if q.Enabled != nil {
		query = query.Where(squirrel.Eq{"enabled": *q.Enabled})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	features := make([]feature.Feature, 0)
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

func (r *PgFeatureRepo) FindByID(ctx context.Context, id int64) (feature.Feature, error) {
	sql, args, err := r.builder.Select(columns...).From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return feature.Feature{}, fmt.Errorf("build select query: %w", err)
	}
	return r.queryOne(ctx, sql, args...)
}

func (r *PgFeatureRepo) FindByName(ctx context.Context, name, environment string) (feature.Feature, error) {
	sql, args, err := r.builder.Select(columns...).From(table).
		Where(squirrel.Eq{"name": name, "environment": environment}).
		ToSql()
	if err != nil {
		return feature.Feature{}, fmt.Errorf("build select query: %w", err)
	}
	return r.queryOne(ctx, sql, args...)
}

func (r *PgFeatureRepo) Create(ctx context.Context, f feature.Feature) (feature.Feature, error) {
	now := time.Now().UTC()
	sql, args, err := r.builder.Insert(table).
		Columns("name", "enabled", "description", "environment", "created_at", "updated_at").
		Values(f.Name, f.Enabled, f.Description, f.Environment, now, now).
		Suffix(returning).
		ToSql()
	if err != nil {
		return feature.Feature{}, fmt.Errorf("build insert query: %w", err)
	}
	return r.queryOne(ctx, sql, args...)
}

func (r *PgFeatureRepo) Update(ctx context.Context, f feature.Feature) (feature.Feature, error) {
	sql, args, err := r.builder.Update(table).
		Set("name", f.Name).
		Set("enabled", f.Enabled).
		Set("description", f.Description).
		Set("environment", f.Environment).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": f.ID}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return feature.Feature{}, fmt.Errorf("build update query: %w", err)
	}
	return r.queryOne(ctx, sql, args...)
}

func (r *PgFeatureRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.builder.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete feature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return feature.ErrNotFound
	}
	return nil
}

func (r *PgFeatureRepo) queryOne(ctx context.Context, sql string, args ...any) (feature.Feature, error) {
	f, err := scanFeature(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return feature.Feature{}, feature.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return feature.Feature{}, feature.ErrConflict
	}
	return f, err
}

func scanFeature(row pgx.Row) (feature.Feature, error) {
	var f feature.Feature
	err := row.Scan(&f.ID, &f.Name, &f.Enabled, &f.Description, &f.Environment, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return feature.Feature{}, err
		}
		return feature.Feature{}, fmt.Errorf("scan feature: %w", err)
	}
	return f, nil
}
