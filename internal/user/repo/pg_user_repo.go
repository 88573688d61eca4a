package user_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-mesh/internal/user/domain/user"
	"ecommerce-mesh/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var columns = []string{"id", "first_name", "last_name", "email", "phone", "image_url", "created_at", "updated_at"}

type PgUserRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewPgUserRepo(pg *postgres.Postgres) user.Repo {
	return &PgUserRepo{db: pg.Pool, builder: pg.Builder}
}

func (r *PgUserRepo) FindAll(ctx context.Context, q user.Query) ([]user.User, error) {
	query := r.builder.Select(columns...).From("users").OrderBy("id")
	if len(q.IDs) > 0 {
		query = query.Where(squirrel.Eq{"id": q.IDs})
	}
	if q.Limit > 0 {
		query = query.Limit(uint64(q.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepo) FindByID(ctx context.Context, id int64) (user.User, error) {
	sql, args, err := r.builder.Select(columns...).From("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("build select query: %w", err)
	}

	return r.queryOne(ctx, sql, args...)
}

func (r *PgUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	now := time.Now().UTC()
	sql, args, err := r.builder.Insert("users").
		Columns("first_name", "last_name", "email", "phone", "image_url", "created_at", "updated_at").
		Values(u.FirstName, u.LastName, u.Email, u.Phone, u.ImageURL, now, now).
		Suffix("RETURNING id, first_name, last_name, email, phone, image_url, created_at, updated_at").
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("build insert query: %w", err)
	}

	return r.queryOne(ctx, sql, args...)
}

func (r *PgUserRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	sql, args, err := r.builder.Update("users").
		Set("first_name", u.FirstName).
		Set("last_name", u.LastName).
		Set("email", u.Email).
		Set("phone", u.Phone).
		Set("image_url", u.ImageURL).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": u.ID}).
		Suffix("RETURNING id, first_name, last_name, email, phone, image_url, created_at, updated_at").
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("build update query: %w", err)
	}

	return r.queryOne(ctx, sql, args...)
}

func (r *PgUserRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.builder.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PgUserRepo) queryOne(ctx context.Context, sql string, args ...any) (user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return user.User{}, user.ErrConflict
	}
	return u, err
}

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u               user.User
		phone, imageURL *string
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &phone, &imageURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	if phone != nil {
		u.Phone = *phone
	}
	if imageURL != nil {
		u.ImageURL = *imageURL
	}
	return u, nil
}
