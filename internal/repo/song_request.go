package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crucial707/strumspace-admin/internal/models"
)

// SongRequestRepo reads and removes visitor song requests.
type SongRequestRepo struct {
	DB *sql.DB
}

// NewSongRequestRepo returns a new SongRequestRepo.
func NewSongRequestRepo(db *sql.DB) *SongRequestRepo {
	return &SongRequestRepo{DB: db}
}

// List returns all song requests, newest first. Ties on created_at fall back to id.
func (r *SongRequestRepo) List(ctx context.Context) ([]models.SongRequest, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, song_title, artist, requester, COALESCE(message, ''), created_at
		FROM song_requests
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list song requests: %w", err)
	}
	defer rows.Close()

	var list []models.SongRequest
	for rows.Next() {
		var s models.SongRequest
		if err := rows.Scan(&s.ID, &s.SongTitle, &s.Artist, &s.Requester, &s.Message, &s.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete removes a song request by id.
func (r *SongRequestRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM song_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song request %d: %w", id, err)
	}
	return expectOneRow(result)
}

// DeleteOlderThan removes every request created before cutoff and reports how many went.
func (r *SongRequestRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM song_requests WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune song requests: %w", err)
	}
	return result.RowsAffected()
}
