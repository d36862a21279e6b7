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

// TaskFilter captures task listing parameters. AssignedTo is normally the
// caller's own id, injected from the request scope.
type TaskFilter struct {
	AssignedTo *string
	CaseID     *string
	OfficeID   *string
	Statuses   []domain.TaskStatus
	DueFrom    *time.Time
	DueTo      *time.Time
	Limit      int
	Offset     int
}

// TaskRepository encapsulates task persistence. Reads exclude soft-deleted
// rows everywhere.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetWithCaseOffice(ctx context.Context, id string) (*domain.Task, string, error)
	SoftDelete(ctx context.Context, id string) error
	ExistsActiveForCase(ctx context.Context, staffID, caseID string) (bool, error)
	ListWithFilter(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates the repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `t.id, t.case_id, t.assigned_to, t.title, t.details, t.status, t.due_date,
               t.created_at, t.updated_at, t.deleted_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (case_id, assigned_to, title, details, status, due_date)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.CaseID,
		task.AssignedTo,
		task.Title,
		task.Details,
		task.Status,
		task.DueDate,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET assigned_to=$1, title=$2, details=$3, status=$4, due_date=$5, updated_at=NOW()
        WHERE id=$6 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query,
		task.AssignedTo,
		task.Title,
		task.Details,
		task.Status,
		task.DueDate,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, _, err := r.GetWithCaseOffice(ctx, id)
	return task, err
}

// GetWithCaseOffice loads a live task and its parent case's office.
func (r *taskRepository) GetWithCaseOffice(ctx context.Context, id string) (*domain.Task, string, error) {
	query := `SELECT ` + taskColumns + `, c.office_id
        FROM tasks t
        JOIN cases c ON c.id = t.case_id
        WHERE t.id=$1 AND t.deleted_at IS NULL`

	var task domain.Task
	var caseOffice string
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.CaseID,
		&task.AssignedTo,
		&task.Title,
		&task.Details,
		&task.Status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.DeletedAt,
		&caseOffice,
	); err != nil {
		return nil, "", err
	}
	return &task, caseOffice, nil
}

func (r *taskRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE tasks SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ExistsActiveForCase reports whether the staff member holds a non-deleted
// task on the case. This is the task-link access path for cases.
func (r *taskRepository) ExistsActiveForCase(ctx context.Context, staffID, caseID string) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM tasks WHERE case_id=$1 AND assigned_to=$2 AND deleted_at IS NULL)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, caseID, staffID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *taskRepository) ListWithFilter(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	base := `SELECT ` + taskColumns + ` FROM tasks t JOIN cases c ON c.id = t.case_id`
	clauses := []string{"t.deleted_at IS NULL"}
	args := []any{}

	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("t.assigned_to=$%d", len(args)))
	}
	if filter.CaseID != nil {
		args = append(args, *filter.CaseID)
		clauses = append(clauses, fmt.Sprintf("t.case_id=$%d", len(args)))
	}
	if filter.OfficeID != nil {
		args = append(args, *filter.OfficeID)
		clauses = append(clauses, fmt.Sprintf("c.office_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		clauses = append(clauses, fmt.Sprintf("t.due_date >= $%d", len(args)))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		clauses = append(clauses, fmt.Sprintf("t.due_date <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.due_date ASC NULLS LAST LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.CaseID,
			&task.AssignedTo,
			&task.Title,
			&task.Details,
			&task.Status,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.DeletedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
