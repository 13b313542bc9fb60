package models

import "time"

// SongRequest is submitted by site visitors elsewhere; admins only read and delete it.
type SongRequest struct {
	ID        int       `json:"id"`
	SongTitle string    `json:"song_title"`
	Artist    string    `json:"artist"`
	Requester string    `json:"requester"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
