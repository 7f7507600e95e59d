package pet

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
	Create(ctx context.Context, p *Pet) error
	GetByID(ctx context.Context, id string) (*Pet, error)
	List(ctx context.Context, filter Filter) ([]*Pet, int, error)
	Update(ctx context.Context, p *Pet) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var petColumns = []string{
	"p.id", "p.owner_id", "COALESCE(u.display_name, u.email)", "p.name", "p.species", "p.breed", "p.birth_date", "p.created_at",
}

func scanPet(row pgx.Row, extra ...any) (*Pet, error) {
	var p Pet
	dest := []any{&p.ID, &p.OwnerID, &p.OwnerName, &p.Name, &p.Species, &p.Breed, &p.BirthDate, &p.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func selectPets(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...).
		From("public.pets p").
		Join("public.users u ON u.id = p.owner_id")
}

func translateWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrNameTaken
		case pgerrcode.ForeignKeyViolation:
			return ErrOwnerNotFound
		}
	}
	return nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Pet) error {
	query, args, err := psql.Insert("public.pets").
		Columns("owner_id", "name", "species", "breed", "birth_date").
		Values(p.OwnerID, p.Name, p.Species, p.Breed, p.BirthDate).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create pet query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		if domainErr := translateWriteErr(err); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("create pet failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Pet, error) {
	query, args, err := selectPets(petColumns...).
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get pet query failed: %w", err)
	}

	p, err := scanPet(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pet failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Pet, int, error) {
	query := selectPets(append(petColumns, "count(*) OVER() AS total_count")...)

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"p.owner_id": filter.OwnerID})
	}
	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"p.name": "%" + filter.Name + "%"})
	}
	if filter.Species != "" {
		query = query.Where(squirrel.Eq{"p.species": filter.Species})
	}
	if filter.Breed != "" {
		query = query.Where(squirrel.ILike{"p.breed": "%" + filter.Breed + "%"})
	}
	if filter.BornOnOrBefore != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"p.birth_date": nil},
			squirrel.LtOrEq{"p.birth_date": *filter.BornOnOrBefore},
		})
	}
	if filter.BornAfter != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"p.birth_date": nil},
			squirrel.Gt{"p.birth_date": *filter.BornAfter},
		})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("p.name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list pets query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pets failed: %w", err)
	}
	defer rows.Close()

	var pets []*Pet
	var total int
	for rows.Next() {
		p, err := scanPet(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pet failed: %w", err)
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pets failed: %w", err)
	}
	return pets, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Pet) error {
	query, args, err := psql.Update("public.pets").
		Set("name", p.Name).
		Set("species", p.Species).
		Set("breed", p.Breed).
		Set("birth_date", p.BirthDate).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update pet query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if domainErr := translateWriteErr(err); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("update pet failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.pets").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete pet query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == pgerrcode.ForeignKeyViolation || pgErr.Code == pgerrcode.RestrictViolation) {
			return ErrHasAppointment
		}
		return fmt.Errorf("delete pet failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
