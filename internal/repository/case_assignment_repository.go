package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/casework-service/internal/domain"
)

// CaseAssignmentRepository manages the legacy explicit case grants.
type CaseAssignmentRepository interface {
	Grant(ctx context.Context, assignment *domain.CaseAssignment) error
	Revoke(ctx context.Context, caseID, staffID string) error
	Exists(ctx context.Context, caseID, staffID string) (bool, error)
	ListByCase(ctx context.Context, caseID string) ([]domain.CaseAssignment, error)
}

type caseAssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewCaseAssignmentRepository instantiates the repository.
func NewCaseAssignmentRepository(pool *pgxpool.Pool) CaseAssignmentRepository {
	return &caseAssignmentRepository{pool: pool}
}

func (r *caseAssignmentRepository) Grant(ctx context.Context, assignment *domain.CaseAssignment) error {
	const query = `
        INSERT INTO case_assignments (case_id, staff_id, granted_by)
        VALUES ($1,$2,$3)
        ON CONFLICT (case_id, staff_id) DO UPDATE SET granted_by = EXCLUDED.granted_by
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		assignment.CaseID,
		assignment.StaffID,
		assignment.GrantedBy,
	).Scan(&assignment.ID, &assignment.CreatedAt)
}

func (r *caseAssignmentRepository) Revoke(ctx context.Context, caseID, staffID string) error {
	const query = `DELETE FROM case_assignments WHERE case_id=$1 AND staff_id=$2`
	cmd, err := r.pool.Exec(ctx, query, caseID, staffID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseAssignmentRepository) Exists(ctx context.Context, caseID, staffID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM case_assignments WHERE case_id=$1 AND staff_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, caseID, staffID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *caseAssignmentRepository) ListByCase(ctx context.Context, caseID string) ([]domain.CaseAssignment, error) {
	const query = `
        SELECT id, case_id, staff_id, granted_by, created_at
        FROM case_assignments WHERE case_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CaseAssignment
	for rows.Next() {
		var assignment domain.CaseAssignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.CaseID,
			&assignment.StaffID,
			&assignment.GrantedBy,
			&assignment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}
