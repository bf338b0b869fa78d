package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abbasia-institute/portal-api/internal/models"
)

const studentColumns = "id, national_id, full_name, department, level, gpa, attendance_rate, total_credits, email"

// StudentRepository reads and updates rows in the external students table.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByNationalID performs the single equality lookup used by login.
// sql.ErrNoRows passes through so the caller can map it to the generic
// credentials error.
func (r *StudentRepository) FindByNationalID(ctx context.Context, nationalID string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE national_id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, nationalID); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateFullName writes the one editable column and returns the server's row.
func (r *StudentRepository) UpdateFullName(ctx context.Context, id, fullName string) (*models.Student, error) {
	query := fmt.Sprintf("UPDATE students SET full_name = $2 WHERE id = $1 RETURNING %s", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, fullName); err != nil {
		return nil, fmt.Errorf("update student name: %w", err)
	}
	return &student, nil
}
