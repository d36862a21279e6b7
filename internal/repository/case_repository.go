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

// CaseFilter captures staff search parameters. Office and department come
// from the request scope for non-full-access callers; the rest are user
// supplied.
type CaseFilter struct {
	OfficeID       *string
	Department     *string
	ClientID       *string
	PrimaryStaffID *string
	Statuses       []domain.CaseStatus
	SearchTerm     *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// CaseRepository encapsulates case persistence.
type CaseRepository interface {
	Create(ctx context.Context, kase *domain.Case) error
	Update(ctx context.Context, kase *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	GetByExternalKey(ctx context.Context, key string) (*domain.Case, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.Case, error)
	ListWithFilter(ctx context.Context, filter CaseFilter) ([]domain.Case, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates the repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

const caseColumns = `id, external_key, office_id, department, client_id, primary_staff_id,
               title, description, status, created_at, updated_at, closed_at`

func (r *caseRepository) Create(ctx context.Context, kase *domain.Case) error {
	const query = `
        INSERT INTO cases (external_key, office_id, department, client_id, primary_staff_id, title, description, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		kase.ExternalKey,
		kase.OfficeID,
		kase.Department,
		kase.ClientID,
		kase.PrimaryStaffID,
		kase.Title,
		kase.Description,
		kase.Status,
	).Scan(&kase.ID, &kase.CreatedAt, &kase.UpdatedAt)
}

func (r *caseRepository) Update(ctx context.Context, kase *domain.Case) error {
	const query = `
        UPDATE cases SET office_id=$1, department=$2, primary_staff_id=$3, title=$4, description=$5,
            status=$6, closed_at=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		kase.OfficeID,
		kase.Department,
		kase.PrimaryStaffID,
		kase.Title,
		kase.Description,
		kase.Status,
		kase.ClosedAt,
		kase.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *caseRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE external_key=$1`
	return r.fetchSingle(ctx, query, key)
}

func (r *caseRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Case, error) {
	var kase domain.Case
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&kase.ID,
		&kase.ExternalKey,
		&kase.OfficeID,
		&kase.Department,
		&kase.ClientID,
		&kase.PrimaryStaffID,
		&kase.Title,
		&kase.Description,
		&kase.Status,
		&kase.CreatedAt,
		&kase.UpdatedAt,
		&kase.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &kase, nil
}

func (r *caseRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.Case, error) {
	filter := CaseFilter{
		ClientID: &clientID,
		Limit:    limit,
		Offset:   offset,
	}
	return r.ListWithFilter(ctx, filter)
}

func (r *caseRepository) ListWithFilter(ctx context.Context, filter CaseFilter) ([]domain.Case, error) {
	base := `SELECT ` + caseColumns + ` FROM cases`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OfficeID != nil {
		args = append(args, *filter.OfficeID)
		clauses = append(clauses, fmt.Sprintf("office_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.PrimaryStaffID != nil {
		args = append(args, *filter.PrimaryStaffID)
		clauses = append(clauses, fmt.Sprintf("primary_staff_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

func scanCases(rows pgx.Rows) ([]domain.Case, error) {
	var result []domain.Case
	for rows.Next() {
		var kase domain.Case
		if err := rows.Scan(
			&kase.ID,
			&kase.ExternalKey,
			&kase.OfficeID,
			&kase.Department,
			&kase.ClientID,
			&kase.PrimaryStaffID,
			&kase.Title,
			&kase.Description,
			&kase.Status,
			&kase.CreatedAt,
			&kase.UpdatedAt,
			&kase.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, kase)
	}
	return result, rows.Err()
}
