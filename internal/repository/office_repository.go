package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/casework-service/internal/domain"
)

// OfficeRepository handles persistence for offices.
type OfficeRepository interface {
	Create(ctx context.Context, office *domain.Office) error
	Update(ctx context.Context, office *domain.Office) error
	GetByID(ctx context.Context, id string) (*domain.Office, error)
	List(ctx context.Context) ([]domain.Office, error)
}

type officeRepository struct {
	pool *pgxpool.Pool
}

// NewOfficeRepository instantiates the repository.
func NewOfficeRepository(pool *pgxpool.Pool) OfficeRepository {
	return &officeRepository{pool: pool}
}

func (r *officeRepository) Create(ctx context.Context, office *domain.Office) error {
	const query = `
        INSERT INTO offices (name, city, active_flag)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		office.Name,
		office.City,
		office.IsActive,
	).Scan(&office.ID, &office.CreatedAt, &office.UpdatedAt)
}

func (r *officeRepository) Update(ctx context.Context, office *domain.Office) error {
	const query = `
        UPDATE offices SET name=$1, city=$2, active_flag=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		office.Name,
		office.City,
		office.IsActive,
		office.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *officeRepository) GetByID(ctx context.Context, id string) (*domain.Office, error) {
	const query = `
        SELECT id, name, city, active_flag, created_at, updated_at
        FROM offices WHERE id=$1`
	var office domain.Office
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&office.ID,
		&office.Name,
		&office.City,
		&office.IsActive,
		&office.CreatedAt,
		&office.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *officeRepository) List(ctx context.Context) ([]domain.Office, error) {
	const query = `
        SELECT id, name, city, active_flag, created_at, updated_at
        FROM offices ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Office
	for rows.Next() {
		var office domain.Office
		if err := rows.Scan(
			&office.ID,
			&office.Name,
			&office.City,
			&office.IsActive,
			&office.CreatedAt,
			&office.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, office)
	}
	return result, rows.Err()
}
