package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/strumspace-admin/internal/auth"
	"github.com/crucial707/strumspace-admin/internal/views"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AuditHandler serves the audit log page.
type AuditHandler struct {
	Repo  AuditStore
	Views Renderer
}

// ListAudit renders recent audit log entries. Query: limit (default 50, max 200), offset (default 0).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request, _ auth.Session) {
	limit := defaultAuditLimit
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = min(val, maxAuditLimit)
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	// one extra row tells us whether an older page exists
	entries, err := h.Repo.List(r.Context(), limit+1, offset)
	if err != nil {
		logError(r, "list audit", err)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}
	hasNext := len(entries) > limit
	if hasNext {
		entries = entries[:limit]
	}

	h.Views.Render(w, http.StatusOK, views.Audit, map[string]any{
		"Title":   "Audit log",
		"Entries": entries,
		"Limit":   limit,
		"HasPrev": offset > 0,
		"Prev":    max(offset-limit, 0),
		"HasNext": hasNext,
		"Next":    offset + limit,
	})
}
