package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/crucial707/strumspace-admin/internal/auth"
	"github.com/crucial707/strumspace-admin/internal/models"
	"github.com/crucial707/strumspace-admin/internal/repo"
	"github.com/crucial707/strumspace-admin/internal/views"
)

// PostHandler serves the gated post pages. Every method is a
// auth.SessionHandlerFunc and must be mounted behind auth.Gate.
type PostHandler struct {
	Posts PostStore
	Audit AuditStore
	Views Renderer
}

type postInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Embed string `json:"embed" validate:"max=2048"`
	Body  string `json:"body" validate:"max=100000"`
}

func readPostForm(r *http.Request) (postInput, error) {
	if err := r.ParseForm(); err != nil {
		return postInput{}, err
	}
	return postInput{
		Title: strings.TrimSpace(r.PostFormValue("title")),
		Embed: strings.TrimSpace(r.PostFormValue("embed")),
		Body:  r.PostFormValue("body"),
	}, nil
}

// ==========================
// Dashboard
// ==========================

func (h *PostHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ auth.Session) {
	posts, err := h.Posts.List(r.Context())
	if err != nil {
		logError(r, "dashboard: list posts", err)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}

	h.Views.Render(w, http.StatusOK, views.Dashboard, map[string]any{
		"Title": "Posts",
		"Posts": posts,
	})
}

// ==========================
// Create Post
// ==========================

func (h *PostHandler) AddPostForm(w http.ResponseWriter, r *http.Request, _ auth.Session) {
	h.Views.Render(w, http.StatusOK, views.AddPost, map[string]any{
		"Title": "New post",
		"Form":  postInput{},
	})
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request, s auth.Session) {
	input, err := readPostForm(r)
	if err != nil {
		renderError(w, h.Views, http.StatusBadRequest, "invalid form")
		return
	}

	if err := validate.Struct(input); err != nil {
		h.Views.Render(w, http.StatusBadRequest, views.AddPost, map[string]any{
			"Title": "New post",
			"Form":  input,
			"Error": validationMessage(validationFields(err)),
		})
		return
	}

	post, err := h.Posts.Create(r.Context(), input.Title, input.Embed, input.Body)
	if err != nil {
		logError(r, "create post", err)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}

	recordChange(r.Context(), h.Audit, s, models.AuditCreate, models.ResourcePost, post.ID, post.Title)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ==========================
// Edit Post
// ==========================

func (h *PostHandler) EditPostForm(w http.ResponseWriter, r *http.Request, _ auth.Session) {
	id, ok := parseID(r)
	if !ok {
		renderError(w, h.Views, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.Posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			renderError(w, h.Views, http.StatusNotFound, "post not found")
			return
		}
		logError(r, "edit post: get post", err)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}

	h.Views.Render(w, http.StatusOK, views.EditPost, map[string]any{
		"Title": "Edit post",
		"Post":  post,
	})
}

// UpdatePost overwrites title, embed and body of one post.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request, s auth.Session) {
	id, ok := parseID(r)
	if !ok {
		renderError(w, h.Views, http.StatusBadRequest, "invalid post id")
		return
	}

	input, err := readPostForm(r)
	if err != nil {
		renderError(w, h.Views, http.StatusBadRequest, "invalid form")
		return
	}

	if err := validate.Struct(input); err != nil {
		h.Views.Render(w, http.StatusBadRequest, views.EditPost, map[string]any{
			"Title": "Edit post",
			"Post":  models.Post{ID: id, Title: input.Title, Embed: input.Embed, Body: input.Body},
			"Error": validationMessage(validationFields(err)),
		})
		return
	}

	post, err := h.Posts.UpdateByID(r.Context(), id, input.Title, input.Embed, input.Body)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			renderError(w, h.Views, http.StatusNotFound, "post not found")
			return
		}
		logError(r, "update post", err)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}

	recordChange(r.Context(), h.Audit, s, models.AuditUpdate, models.ResourcePost, post.ID, post.Title)
	http.Redirect(w, r, "/edit-post/"+strconv.Itoa(post.ID), http.StatusSeeOther)
}

// ==========================
// Delete Post
// ==========================

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request, s auth.Session) {
	id, ok := parseID(r)
	if !ok {
		renderError(w, h.Views, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.Posts.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			renderError(w, h.Views, http.StatusNotFound, "post not found")
			return
		}
		logError(r, "delete post", err)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}

	recordChange(r.Context(), h.Audit, s, models.AuditDelete, models.ResourcePost, id, "")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
