package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

// MaterialRepository persists course materials.
type MaterialRepository interface {
	Create(ctx context.Context, material *domain.Material) error
	List(ctx context.Context) ([]domain.Material, error)
}

type materialRepository struct {
	pool *pgxpool.Pool
}

// NewMaterialRepository returns a Postgres-backed implementation.
func NewMaterialRepository(pool *pgxpool.Pool) MaterialRepository {
	return &materialRepository{pool: pool}
}

func (r *materialRepository) Create(ctx context.Context, material *domain.Material) error {
	const query = `
        INSERT INTO materials (title, type, url, size)
        VALUES ($1, $2, $3, $4)
        RETURNING id::text, uploaded_at`
	return r.pool.QueryRow(ctx, query,
		material.Title,
		material.Type,
		material.URL,
		material.Size,
	).Scan(&material.ID, &material.UploadedAt)
}

func (r *materialRepository) List(ctx context.Context) ([]domain.Material, error) {
	const query = `
        SELECT id::text, title, type, url, size, uploaded_at
        FROM materials ORDER BY uploaded_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []domain.Material
	for rows.Next() {
		var m domain.Material
		if err := rows.Scan(&m.ID, &m.Title, &m.Type, &m.URL, &m.Size, &m.UploadedAt); err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}
