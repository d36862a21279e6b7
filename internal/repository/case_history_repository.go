package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/casework-service/internal/domain"
)

// CaseHistoryRepository persists the append-only case audit trail.
type CaseHistoryRepository interface {
	Create(ctx context.Context, entry *domain.CaseHistory) error
	ListByCase(ctx context.Context, caseID string, limit, offset int) ([]domain.CaseHistory, error)
}

type caseHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewCaseHistoryRepository instantiates the repository.
func NewCaseHistoryRepository(pool *pgxpool.Pool) CaseHistoryRepository {
	return &caseHistoryRepository{pool: pool}
}

func (r *caseHistoryRepository) Create(ctx context.Context, entry *domain.CaseHistory) error {
	oldVal, err := json.Marshal(entry.OldValue)
	if err != nil {
		return err
	}
	newVal, err := json.Marshal(entry.NewValue)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO case_history (case_id, changed_by_id, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.CaseID,
		entry.ChangedByID,
		entry.ChangeType,
		oldVal,
		newVal,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *caseHistoryRepository) ListByCase(ctx context.Context, caseID string, limit, offset int) ([]domain.CaseHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, case_id, changed_by_id, change_type, old_value, new_value, created_at
        FROM case_history WHERE case_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, caseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CaseHistory
	for rows.Next() {
		var entry domain.CaseHistory
		var oldVal, newVal []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.CaseID,
			&entry.ChangedByID,
			&entry.ChangeType,
			&oldVal,
			&newVal,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(oldVal) > 0 {
			if err := json.Unmarshal(oldVal, &entry.OldValue); err != nil {
				return nil, err
			}
		}
		if len(newVal) > 0 {
			if err := json.Unmarshal(newVal, &entry.NewValue); err != nil {
				return nil, err
			}
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
