package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/strumspace-admin/internal/auth"
	"github.com/crucial707/strumspace-admin/internal/models"
	"github.com/crucial707/strumspace-admin/internal/repo"
	"github.com/crucial707/strumspace-admin/internal/views"
)

// SongRequestHandler serves song-request moderation. Mount behind auth.Gate.
type SongRequestHandler struct {
	SongRequests SongRequestStore
	Audit        AuditStore
	Views        Renderer
}

// ListSongRequests renders all requests, newest first.
func (h *SongRequestHandler) ListSongRequests(w http.ResponseWriter, r *http.Request, _ auth.Session) {
	requests, err := h.SongRequests.List(r.Context())
	if err != nil {
		logError(r, "list song requests", err)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}

	h.Views.Render(w, http.StatusOK, views.SongRequests, map[string]any{
		"Title":        "Song requests",
		"SongRequests": requests,
	})
}

func (h *SongRequestHandler) DeleteSongRequest(w http.ResponseWriter, r *http.Request, s auth.Session) {
	id, ok := parseID(r)
	if !ok {
		renderError(w, h.Views, http.StatusBadRequest, "invalid song request id")
		return
	}

	if err := h.SongRequests.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			renderError(w, h.Views, http.StatusNotFound, "song request not found")
			return
		}
		logError(r, "delete song request", err)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}

	recordChange(r.Context(), h.Audit, s, models.AuditDelete, models.ResourceSongRequest, id, "")
	http.Redirect(w, r, "/song-requests", http.StatusSeeOther)
}
