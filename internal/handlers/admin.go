package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/crucial707/strumspace-admin/internal/auth"
	"github.com/crucial707/strumspace-admin/internal/metrics"
	"github.com/crucial707/strumspace-admin/internal/models"
	"github.com/crucial707/strumspace-admin/internal/repo"
	"github.com/crucial707/strumspace-admin/internal/views"
)

// ==========================
// Admin Handler
// ==========================

// AdminHandler serves the public admin endpoints: login, registration and logout.
type AdminHandler struct {
	Users        UserStore
	Audit        AuditStore
	Tokens       *auth.TokenIssuer
	Views        Renderer
	CookieSecure bool
	HomeURL      string
}

// ==========================
// Login Page
// ==========================

func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, http.StatusOK, views.Login, nil)
}

// ==========================
// Login
// ==========================

// Login checks form credentials. Unknown users and wrong passwords get the
// same invalid page and never a cookie.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, h.Views, http.StatusBadRequest, "invalid form")
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		h.invalid(w)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.invalid(w)
			return
		}
		logError(r, "login: lookup user", err)
		metrics.IncLoginAttempt(metrics.LoginError)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		logError(r, "login: compare password", err)
		metrics.IncLoginAttempt(metrics.LoginError)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}
	if !ok {
		h.invalid(w)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		logError(r, "login: issue token", err)
		metrics.IncLoginAttempt(metrics.LoginError)
		renderError(w, h.Views, http.StatusInternalServerError, "")
		return
	}

	metrics.IncLoginAttempt(metrics.LoginSuccess)
	auth.SetSessionCookie(w, token, int(h.Tokens.TTL().Seconds()), h.CookieSecure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AdminHandler) invalid(w http.ResponseWriter) {
	metrics.IncLoginAttempt(metrics.LoginInvalid)
	h.Views.Render(w, http.StatusUnauthorized, views.Invalid, nil)
}

// ==========================
// Register
// ==========================

type registerInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// Register creates an admin account from a JSON or form body.
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registerInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			JSONError(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			JSONError(w, "invalid form", http.StatusBadRequest)
			return
		}
		input.Username = r.PostFormValue("username")
		input.Password = r.PostFormValue("password")
	}
	input.Username = strings.TrimSpace(input.Username)

	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		logError(r, "register: hash password", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Username, hash)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			JSONError(w, "user already in use", http.StatusConflict)
			return
		}
		logError(r, "register: create user", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	// no one is logged in on /register, so the system id 0 is the actor
	recordChange(r.Context(), h.Audit, auth.Session{},
		models.AuditCreate, models.ResourceUser, user.ID, user.Username)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "user created",
		"user":    user,
	})
}

// ==========================
// Logout
// ==========================

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.CookieSecure)
	home := h.HomeURL
	if home == "" {
		home = "/"
	}
	http.Redirect(w, r, home, http.StatusSeeOther)
}
