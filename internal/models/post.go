package models

import "time"

// Post is a blog-style entry managed from the dashboard. Embed holds the
// reference to embedded media (usually a video URL).
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Embed     string    `json:"embed"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
