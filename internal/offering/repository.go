package offering

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, o *Offering) error
	GetByID(ctx context.Context, id string) (*Offering, error)
	// FindByName returns the first service whose name contains fragment, case-insensitively.
	FindByName(ctx context.Context, fragment string) (*Offering, error)
	First(ctx context.Context) (*Offering, error)
	List(ctx context.Context, filter Filter) ([]*Offering, int, error)
	Update(ctx context.Context, o *Offering) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var offeringColumns = []string{"id", "name", "description", "price_cents", "duration_minutes", "created_at"}

func scanOffering(row pgx.Row, extra ...any) (*Offering, error) {
	var o Offering
	dest := []any{&o.ID, &o.Name, &o.Description, &o.PriceCents, &o.DurationMinutes, &o.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &o, nil
}

func translateWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrNameTaken
		case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation:
			return ErrInUse
		}
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, o *Offering) error {
	query, args, err := psql.Insert("public.services").
		Columns("name", "description", "price_cents", "duration_minutes").
		Values(o.Name, o.Description, o.PriceCents, o.DurationMinutes).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create service query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		if tErr := translateWriteErr(err); tErr != err {
			return tErr
		}
		return fmt.Errorf("create service failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) selectOne(ctx context.Context, q squirrel.SelectBuilder) (*Offering, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	o, err := scanOffering(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return o, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Offering, error) {
	return r.selectOne(ctx, psql.Select(offeringColumns...).
		From("public.services").
		Where(squirrel.Eq{"id": id}))
}

func (r *pgxRepository) FindByName(ctx context.Context, fragment string) (*Offering, error) {
	return r.selectOne(ctx, psql.Select(offeringColumns...).
		From("public.services").
		Where(squirrel.ILike{"name": "%" + fragment + "%"}).
		OrderBy("name ASC"))
}

func (r *pgxRepository) First(ctx context.Context) (*Offering, error) {
	return r.selectOne(ctx, psql.Select(offeringColumns...).
		From("public.services").
		OrderBy("created_at ASC"))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	query := psql.Select(append(offeringColumns, "count(*) OVER() AS total_count")...).
		From("public.services")

	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list services query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services failed: %w", err)
	}
	defer rows.Close()

	var result []*Offering
	var total int
	for rows.Next() {
		o, err := scanOffering(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan service failed: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate services failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, o *Offering) error {
	query, args, err := psql.Update("public.services").
		Set("name", o.Name).
		Set("description", o.Description).
		Set("price_cents", o.PriceCents).
		Set("duration_minutes", o.DurationMinutes).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update service query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if tErr := translateWriteErr(err); tErr != err {
			return tErr
		}
		return fmt.Errorf("update service failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete service query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if tErr := translateWriteErr(err); tErr != err {
			return tErr
		}
		return fmt.Errorf("delete service failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
