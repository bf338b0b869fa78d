package models

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one transcript entry. Entries are append-only within a session
// and never persisted.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
