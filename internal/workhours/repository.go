package workhours

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

type Repository interface {
	Create(ctx context.Context, w *Window) error
	GetByID(ctx context.Context, id string) (*Window, error)
	List(ctx context.Context, filter Filter) ([]*Window, error)
	Update(ctx context.Context, w *Window) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// TIME columns are read back as text and parsed, keeping minute precision.
var windowColumns = []string{
	"id", "day_of_week", "start_time::text", "end_time::text", "created_at",
}

func scanWindow(row pgx.Row) (*Window, error) {
	var (
		w          Window
		start, end string
	)
	if err := row.Scan(&w.ID, &w.DayOfWeek, &start, &end, &w.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if w.Start, err = schedule.ParseTimeOfDay(start); err != nil {
		return nil, fmt.Errorf("parse start_time %q: %w", start, err)
	}
	if w.End, err = schedule.ParseTimeOfDay(end); err != nil {
		return nil, fmt.Errorf("parse end_time %q: %w", end, err)
	}
	return &w, nil
}

func (r *pgxRepository) Create(ctx context.Context, w *Window) error {
	query, args, err := psql.Insert("public.working_hours").
		Columns("day_of_week", "start_time", "end_time").
		Values(
			w.DayOfWeek,
			squirrel.Expr("?::time", w.Start.String()),
			squirrel.Expr("?::time", w.End.String()),
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create working hours query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&w.ID, &w.CreatedAt); err != nil {
		return fmt.Errorf("create working hours failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Window, error) {
	query, args, err := psql.Select(windowColumns...).
		From("public.working_hours").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get working hours query failed: %w", err)
	}

	w, err := scanWindow(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get working hours failed: %w", err)
	}
	return w, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Window, error) {
	query := psql.Select(windowColumns...).From("public.working_hours")
	if filter.DayOfWeek != nil {
		query = query.Where(squirrel.Eq{"day_of_week": *filter.DayOfWeek})
	}

	sql, args, err := query.OrderBy("day_of_week ASC", "start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list working hours query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list working hours failed: %w", err)
	}
	defer rows.Close()

	var result []*Window
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan working hours failed: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate working hours failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, w *Window) error {
	query, args, err := psql.Update("public.working_hours").
		Set("day_of_week", w.DayOfWeek).
		Set("start_time", squirrel.Expr("?::time", w.Start.String())).
		Set("end_time", squirrel.Expr("?::time", w.End.String())).
		Where(squirrel.Eq{"id": w.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update working hours query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update working hours failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.working_hours").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete working hours query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete working hours failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
