package order_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-mesh/internal/order/domain/order"
	"ecommerce-mesh/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const returning = "RETURNING id, user_id, description, fee, ordered_at, created_at, updated_at"

var columns = []string{"id", "user_id", "description", "fee", "ordered_at", "created_at", "updated_at"}

type PgOrderRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewPgOrderRepo(pg *postgres.Postgres) order.Repo {
	return &PgOrderRepo{db: pg.Pool, builder: pg.Builder}
}

func (r *PgOrderRepo) FindAll(ctx context.Context, q order.Query) ([]order.Order, error) {
	query := r.builder.Select(columns...).From("orders").OrderBy("ordered_at DESC", "id DESC")
	if len(q.UserIDs) > 0 {
		query = query.Where(squirrel.Eq{"user_id": q.UserIDs})
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
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PgOrderRepo) FindByID(ctx context.Context, id int64) (order.Order, error) {
	sql, args, err := r.builder.Select(columns...).From("orders").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("build select query: %w", err)
	}
	return r.queryOne(ctx, sql, args...)
}

func (r *PgOrderRepo) Create(ctx context.Context, o order.Order) (order.Order, error) {
	now := time.Now().UTC()
	sql, args, err := r.builder.Insert("orders").
		Columns("user_id", "description", "fee", "ordered_at", "created_at", "updated_at").
		Values(o.UserID, o.Description, o.Fee, o.OrderedAt, now, now).
		Suffix(returning).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("build insert query: %w", err)
	}
	return r.queryOne(ctx, sql, args...)
}

func (r *PgOrderRepo) Update(ctx context.Context, o order.Order) (order.Order, error) {
	sql, args, err := r.builder.Update("orders").
		Set("user_id", o.UserID).
		Set("description", o.Description).
		Set("fee", o.Fee).
		Set("ordered_at", o.OrderedAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": o.ID}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("build update query: %w", err)
	}
	return r.queryOne(ctx, sql, args...)
}

func (r *PgOrderRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.builder.Delete("orders").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *PgOrderRepo) queryOne(ctx context.Context, sql string, args ...any) (order.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, order.ErrNotFound
	}
	return o, err
}

func scanOrder(row pgx.Row) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Description, &o.Fee, &o.OrderedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, err
		}
		return order.Order{}, fmt.Errorf("scan order: %w", err)
	}
	return o, nil
}
