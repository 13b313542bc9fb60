package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/strumspace-admin/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type PostRepo struct {
	DB *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

const postColumns = `id, title, embed, body, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }, p *models.Post) error {
	return row.Scan(&p.ID, &p.Title, &p.Embed, &p.Body, &p.CreatedAt, &p.UpdatedAt)
}

// ========================
// CREATE POST
// ========================

func (r *PostRepo) Create(ctx context.Context, title, embed, body string) (models.Post, error) {
	var post models.Post
	err := scanPost(r.DB.QueryRowContext(ctx,
		`INSERT INTO posts (title, embed, body)
		 VALUES ($1, $2, $3)
		 RETURNING `+postColumns,
		title, embed, body,
	), &post)
	if err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// ========================
// GET POST BY ID
// ========================

func (r *PostRepo) GetByID(ctx context.Context, id int) (models.Post, error) {
	var post models.Post
	err := scanPost(r.DB.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts
		 WHERE id = $1`,
		id,
	), &post)
	if err != nil {
		if notFound(err) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return post, nil
}

// ========================
// UPDATE POST BY ID
// ========================

// UpdateByID overwrites title, body and embed and bumps updated_at. Other rows are untouched.
func (r *PostRepo) UpdateByID(ctx context.Context, id int, title, embed, body string) (models.Post, error) {
	var post models.Post
	err := scanPost(r.DB.QueryRowContext(ctx,
		`UPDATE posts
		 SET title = $1, embed = $2, body = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING `+postColumns,
		title, embed, body, id,
	), &post)
	if err != nil {
		if notFound(err) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	return post, nil
}

// ========================
// DELETE POST BY ID
// ========================

func (r *PostRepo) DeleteByID(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return expectOneRow(result)
}

// ========================
// LIST ALL POSTS
// ========================

// List returns every post, newest first.
func (r *PostRepo) List(ctx context.Context) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
