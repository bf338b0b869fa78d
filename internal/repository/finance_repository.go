package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/abbasia-institute/portal-api/internal/models"
)

// FinanceRepository reads the single fees row per student.
type FinanceRepository struct {
	db *sqlx.DB
}

// NewFinanceRepository constructs a FinanceRepository.
func NewFinanceRepository(db *sqlx.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// GetByStudent returns the fees row for one student. sql.ErrNoRows passes
// through; the view treats it the same as any other failed fetch.
func (r *FinanceRepository) GetByStudent(ctx context.Context, studentID string) (*models.FinanceRecord, error) {
	const query = `SELECT total_fees, paid_amount, status, due_date FROM finances WHERE student_id = $1`
	var record models.FinanceRecord
	if err := r.db.GetContext(ctx, &record, query, studentID); err != nil {
		return nil, err
	}
	return &record, nil
}
