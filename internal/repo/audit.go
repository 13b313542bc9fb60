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

// AuditRepo appends to and pages through the audit_log table. Rows are never
// updated or deleted here.
type AuditRepo struct {
	DB *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{DB: db}
}

const auditColumns = `id, user_id, action, resource_type, resource_id, COALESCE(details, ''), created_at`

// ========================
// LOG
// ========================

// Log appends one entry. userID 0 marks a system action; empty details are stored as NULL.
func (r *AuditRepo) Log(ctx context.Context, userID int, action, resourceType string, resourceID int, details string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, resource_type, resource_id, details) VALUES ($1, $2, $3, $4, $5)`,
		userID, action, resourceType, resourceID, sql.NullString{String: details, Valid: details != ""},
	)
	if err != nil {
		return fmt.Errorf("audit %s %s %d: %w", action, resourceType, resourceID, err)
	}
	return nil
}

// ========================
// LIST
// ========================

// List pages through entries newest first.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+auditColumns+" FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0, limit)
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
