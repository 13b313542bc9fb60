package models

import "time"

const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
	AuditPrune  = "prune"

	ResourcePost        = "post"
	ResourceSongRequest = "song_request"
	ResourceUser        = "user"
)

// AuditEntry represents one audit log row. UserID 0 marks system actions (scheduled pruning).
type AuditEntry struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   int       `json:"resource_id"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
