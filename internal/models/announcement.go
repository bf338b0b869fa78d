package models

import "time"

// Announcement categories.
const (
	AnnouncementTypeNews     = "news"
	AnnouncementTypeEvent    = "event"
	AnnouncementTypeDeadline = "deadline"
)

// Announcement is a global notice; the dashboard shows the latest four.
type Announcement struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
