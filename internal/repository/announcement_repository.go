package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abbasia-institute/portal-api/internal/models"
)

// AnnouncementRepository reads global notices.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository constructs an AnnouncementRepository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// Latest returns the newest announcements, descending by created_at.
func (r *AnnouncementRepository) Latest(ctx context.Context, limit int) ([]models.Announcement, error) {
	if limit <= 0 {
		limit = 4
	}
	const query = `SELECT id, title, content, type, created_at FROM announcements ORDER BY created_at DESC LIMIT $1`
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, limit); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}
