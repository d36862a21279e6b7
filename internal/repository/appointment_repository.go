package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/casework-service/internal/domain"
)

// AppointmentFilter captures appointment listing parameters. OfficeID joins
// through the parent case, since appointments inherit their office from it.
type AppointmentFilter struct {
	OfficeID      *string
	Department    *string
	StaffID       *string
	CaseID        *string
	Statuses      []domain.AppointmentStatus
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	Limit         int
	Offset        int
}

// AppointmentRepository encapsulates appointment persistence.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	Update(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	GetWithCaseOffice(ctx context.Context, id string) (*domain.Appointment, string, error)
	ListWithFilter(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates the repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

const appointmentColumns = `a.id, a.case_id, a.staff_id, a.department, a.scheduled_at, a.duration_min,
               a.status, a.notes, a.created_at, a.updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (case_id, staff_id, department, scheduled_at, duration_min, status, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		appt.CaseID,
		appt.StaffID,
		appt.Department,
		appt.ScheduledAt,
		appt.DurationMin,
		appt.Status,
		appt.Notes,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
}

func (r *appointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        UPDATE appointments SET staff_id=$1, department=$2, scheduled_at=$3, duration_min=$4,
            status=$5, notes=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		appt.StaffID,
		appt.Department,
		appt.ScheduledAt,
		appt.DurationMin,
		appt.Status,
		appt.Notes,
		appt.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	appt, _, err := r.GetWithCaseOffice(ctx, id)
	return appt, err
}

// GetWithCaseOffice loads the appointment and its parent case's office in
// one round trip; pgx.ErrNoRows covers both a missing appointment and a
// dangling case reference.
func (r *appointmentRepository) GetWithCaseOffice(ctx context.Context, id string) (*domain.Appointment, string, error) {
	query := `SELECT ` + appointmentColumns + `, c.office_id
        FROM appointments a
        JOIN cases c ON c.id = a.case_id
        WHERE a.id=$1`

	var appt domain.Appointment
	var caseOffice string
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&appt.ID,
		&appt.CaseID,
		&appt.StaffID,
		&appt.Department,
		&appt.ScheduledAt,
		&appt.DurationMin,
		&appt.Status,
		&appt.Notes,
		&appt.CreatedAt,
		&appt.UpdatedAt,
		&caseOffice,
	); err != nil {
		return nil, "", err
	}
	return &appt, caseOffice, nil
}

func (r *appointmentRepository) ListWithFilter(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error) {
	base := `SELECT ` + appointmentColumns + ` FROM appointments a JOIN cases c ON c.id = a.case_id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OfficeID != nil {
		args = append(args, *filter.OfficeID)
		clauses = append(clauses, fmt.Sprintf("c.office_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("a.department=$%d", len(args)))
	}
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		clauses = append(clauses, fmt.Sprintf("a.staff_id=$%d", len(args)))
	}
	if filter.CaseID != nil {
		args = append(args, *filter.CaseID)
		clauses = append(clauses, fmt.Sprintf("a.case_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("a.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ScheduledFrom != nil {
		args = append(args, *filter.ScheduledFrom)
		clauses = append(clauses, fmt.Sprintf("a.scheduled_at >= $%d", len(args)))
	}
	if filter.ScheduledTo != nil {
		args = append(args, *filter.ScheduledTo)
		clauses = append(clauses, fmt.Sprintf("a.scheduled_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.scheduled_at ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Appointment
	for rows.Next() {
		var appt domain.Appointment
		if err := rows.Scan(
			&appt.ID,
			&appt.CaseID,
			&appt.StaffID,
			&appt.Department,
			&appt.ScheduledAt,
			&appt.DurationMin,
			&appt.Status,
			&appt.Notes,
			&appt.CreatedAt,
			&appt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, appt)
	}
	return result, rows.Err()
}
