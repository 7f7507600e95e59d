package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)
	Delete(ctx context.Context, id string) error

	// OccupiedIntervals implements schedule.OccupancySource. Each interval is
	// sized by the appointment's own service duration.
	OccupiedIntervals(ctx context.Context, from, to time.Time, excludeID string) ([]schedule.Interval, error)

	// WithTx runs fn in a single transaction, rolled back when fn fails.
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository holds the writes that must share a transaction.
type TxRepository interface {
	// GetForUpdate locks the row until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Appointment, error)
	Insert(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var appointmentColumns = []string{
	"a.id", "a.pet_id", "p.name", "p.owner_id", "COALESCE(u.display_name, u.email)",
	"a.service_id", "s.name", "s.duration_minutes",
	"a.schedule_time", "a.end_time", "a.status", "a.notes", "a.completed_at",
	"a.created_at", "a.updated_at",
}

func selectAppointments(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...).
		From("public.appointments a").
		Join("public.pets p ON p.id = a.pet_id").
		Join("public.users u ON u.id = p.owner_id").
		Join("public.services s ON s.id = a.service_id")
}

func scanAppointment(row pgx.Row, extra ...any) (*Appointment, error) {
	var a Appointment
	dest := []any{
		&a.ID, &a.PetID, &a.PetName, &a.OwnerID, &a.OwnerName,
		&a.ServiceID, &a.ServiceName, &a.DurationMinutes,
		&a.ScheduleTime, &a.EndTime, &a.Status, &a.Notes, &a.CompletedAt,
		&a.CreatedAt, &a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &a, nil
}

// IsSlotConflict reports whether err is the exclusion-constraint violation
// raised when two live appointments overlap.
func IsSlotConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation
}

func getOne(ctx context.Context, q querier, id string, forUpdate bool) (*Appointment, error) {
	builder := selectAppointments(appointmentColumns...).Where(squirrel.Eq{"a.id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE OF a")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get appointment query failed: %w", err)
	}

	a, err := scanAppointment(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment failed: %w", err)
	}
	return a, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return getOne(ctx, r.pool, id, false)
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	query := selectAppointments(append(appointmentColumns, "count(*) OVER() AS total_count")...)

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"p.owner_id": filter.OwnerID})
	}
	if filter.PetID != "" {
		query = query.Where(squirrel.Eq{"a.pet_id": filter.PetID})
	}
	if filter.ServiceID != "" {
		query = query.Where(squirrel.Eq{"a.service_id": filter.ServiceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"a.status": filter.Status})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"a.schedule_time": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"a.schedule_time": *filter.To})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("a.schedule_time DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list appointments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments failed: %w", err)
	}
	defer rows.Close()

	var result []*Appointment
	var total int
	for rows.Next() {
		a, err := scanAppointment(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan appointment failed: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate appointments failed: %w", err)
	}
	return result, total, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete appointment query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete appointment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) OccupiedIntervals(ctx context.Context, from, to time.Time, excludeID string) ([]schedule.Interval, error) {
	query := psql.Select(
		"a.schedule_time",
		"a.schedule_time + make_interval(mins => s.duration_minutes)",
	).
		From("public.appointments a").
		Join("public.services s ON s.id = a.service_id").
		Where(squirrel.NotEq{"a.status": StatusCanceled}).
		Where(squirrel.GtOrEq{"a.schedule_time": from}).
		Where(squirrel.Lt{"a.schedule_time": to})

	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"a.id": excludeID})
	}

	sql, args, err := query.OrderBy("a.schedule_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build occupied intervals query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list occupied intervals failed: %w", err)
	}
	defer rows.Close()

	var result []schedule.Interval
	for rows.Next() {
		var iv schedule.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, fmt.Errorf("scan occupied interval failed: %w", err)
		}
		result = append(result, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occupied intervals failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{q: tx})
	})
}

type txRepository struct {
	q querier
}

func (t *txRepository) GetForUpdate(ctx context.Context, id string) (*Appointment, error) {
	return getOne(ctx, t.q, id, true)
}

func (t *txRepository) Insert(ctx context.Context, a *Appointment) error {
	query, args, err := psql.Insert("public.appointments").
		Columns("pet_id", "service_id", "schedule_time", "end_time", "status", "notes", "completed_at").
		Values(a.PetID, a.ServiceID, a.ScheduleTime, a.EndTime, a.Status, a.Notes, a.CompletedAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create appointment query failed: %w", err)
	}

	if err := t.q.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if IsSlotConflict(err) {
			return ErrSlotUnavailable.WithErr(err)
		}
		return fmt.Errorf("create appointment failed: %w", err)
	}
	return nil
}

func (t *txRepository) Update(ctx context.Context, a *Appointment) error {
	query, args, err := psql.Update("public.appointments").
		Set("pet_id", a.PetID).
		Set("service_id", a.ServiceID).
		Set("schedule_time", a.ScheduleTime).
		Set("end_time", a.EndTime).
		Set("status", a.Status).
		Set("notes", a.Notes).
		Set("completed_at", a.CompletedAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update appointment query failed: %w", err)
	}

	if err := t.q.QueryRow(ctx, query, args...).Scan(&a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if IsSlotConflict(err) {
			return ErrSlotUnavailable.WithErr(err)
		}
		return fmt.Errorf("update appointment failed: %w", err)
	}
	return nil
}
