package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abbasia-institute/portal-api/internal/models"
)

// MaterialRepository reads library resources scoped by audience.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository constructs a MaterialRepository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// ListForAudience returns materials visible to a (department, level) pair.
// Rows with a null department or level are shared with every audience.
func (r *MaterialRepository) ListForAudience(ctx context.Context, department models.Department, level int) ([]models.Material, error) {
	const query = `SELECT id, title, type, format, size, date, url FROM materials
WHERE (department = $1 OR department IS NULL) AND (level = $2 OR level IS NULL)`
	var materials []models.Material
	if err := r.db.SelectContext(ctx, &materials, query, department, level); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return materials, nil
}
