package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abbasia-institute/portal-api/internal/models"
)

// ScheduleRepository reads lecture and exam slots scoped by audience.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListLectures returns the lecture slots for one (department, level).
func (r *ScheduleRepository) ListLectures(ctx context.Context, department models.Department, level int) ([]models.ScheduleItem, error) {
	const query = `SELECT day, time, course, room FROM schedule WHERE department = $1 AND level = $2`
	var items []models.ScheduleItem
	if err := r.db.SelectContext(ctx, &items, query, department, level); err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return items, nil
}

// ListExams returns the announced exam slots for one (department, level).
func (r *ScheduleRepository) ListExams(ctx context.Context, department models.Department, level int) ([]models.ExamItem, error) {
	const query = `SELECT course_name, exam_date, exam_time, room FROM exams WHERE department = $1 AND level = $2`
	var items []models.ExamItem
	if err := r.db.SelectContext(ctx, &items, query, department, level); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return items, nil
}
