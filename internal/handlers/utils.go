package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/strumspace-admin/internal/auth"
	"github.com/crucial707/strumspace-admin/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// recordChange writes the audit entry and bumps the change counter. The
// mutation has already happened, so a failed audit write is only logged.
func recordChange(ctx context.Context, store AuditStore, s auth.Session, action, resource string, id int, details string) {
	metrics.IncContentChange(resource, action)
	if store == nil {
		return
	}
	if err := store.Log(ctx, s.UserID, action, resource, id, details); err != nil {
		slog.WarnContext(ctx, "audit log write failed",
			"action", action,
			"resource_type", resource,
			"resource_id", id,
			"error", err)
	}
}
