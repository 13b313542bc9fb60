package handlers

import (
	"context"
	"net/http"

	"github.com/crucial707/strumspace-admin/internal/models"
)

// UserStore is the subset of repo.UserRepo the admin handler needs.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type PostStore interface {
	Create(ctx context.Context, title, embed, body string) (models.Post, error)
	GetByID(ctx context.Context, id int) (models.Post, error)
	UpdateByID(ctx context.Context, id int, title, embed, body string) (models.Post, error)
	DeleteByID(ctx context.Context, id int) error
	List(ctx context.Context) ([]models.Post, error)
}

type SongRequestStore interface {
	List(ctx context.Context) ([]models.SongRequest, error)
	Delete(ctx context.Context, id int) error
}

type AuditStore interface {
	Log(ctx context.Context, userID int, action, resourceType string, resourceID int, details string) error
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}

// Renderer writes a named HTML page. Implemented by views.Renderer.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any)
}
