package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/crucial707/strumspace-admin/internal/auth"
	"github.com/crucial707/strumspace-admin/internal/models"
	"github.com/crucial707/strumspace-admin/internal/repo"
	"github.com/crucial707/strumspace-admin/internal/views"
	"github.com/go-chi/chi/v5"
)

const testSecret = "test-secret"

func newTestViews(t *testing.T) *views.Renderer {
	t.Helper()
	v, err := views.New()
	if err != nil {
		t.Fatalf("views.New: %v", err)
	}
	return v
}

func newTestTokens(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	tokens, err := auth.NewTokenIssuer(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return tokens
}

// withURLParam attaches a chi route context so handlers can read {id} without a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func sessionCookie(t *testing.T, tokens *auth.TokenIssuer, userID int) *http.Cookie {
	t.Helper()
	token, err := tokens.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// clock hands out strictly increasing times.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// ==========================
// In-memory stores
// ==========================

type memUsers struct {
	mu     sync.Mutex
	byName map[string]*models.User
	nextID int
}

func newMemUsers() *memUsers {
	return &memUsers{byName: make(map[string]*models.User)}
}

func (m *memUsers) Create(_ context.Context, username, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; ok {
		return nil, repo.ErrDuplicate
	}
	m.nextID++
	u := &models.User{ID: m.nextID, Username: username, PasswordHash: passwordHash}
	m.byName[username] = u
	return u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memPosts struct {
	mu        sync.Mutex
	posts     map[int]models.Post
	nextID    int
	clock     *clock
	mutations int
}

func newMemPosts() *memPosts {
	return &memPosts{posts: make(map[int]models.Post), clock: newClock()}
}

func (m *memPosts) Create(_ context.Context, title, embed, body string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	m.nextID++
	now := m.clock.Now()
	p := models.Post{ID: m.nextID, Title: title, Embed: embed, Body: body, CreatedAt: now, UpdatedAt: now}
	m.posts[p.ID] = p
	return p, nil
}

func (m *memPosts) GetByID(_ context.Context, id int) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *memPosts) UpdateByID(_ context.Context, id int, title, embed, body string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, repo.ErrNotFound
	}
	m.mutations++
	p.Title, p.Embed, p.Body = title, embed, body
	p.UpdatedAt = m.clock.Now()
	m.posts[id] = p
	return p, nil
}

func (m *memPosts) DeleteByID(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return repo.ErrNotFound
	}
	m.mutations++
	delete(m.posts, id)
	return nil
}

func (m *memPosts) List(_ context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type memSongRequests struct {
	mu        sync.Mutex
	requests  map[int]models.SongRequest
	mutations int
}

func newMemSongRequests(reqs ...models.SongRequest) *memSongRequests {
	m := &memSongRequests{requests: make(map[int]models.SongRequest)}
	for _, r := range reqs {
		m.requests[r.ID] = r
	}
	return m
}

func (m *memSongRequests) List(_ context.Context) ([]models.SongRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SongRequest, 0, len(m.requests))
	for _, r := range m.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memSongRequests) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return repo.ErrNotFound
	}
	m.mutations++
	delete(m.requests, id)
	return nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (m *memAudit) Log(_ context.Context, userID int, action, resourceType string, resourceID int, details string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, models.AuditEntry{
		ID:           len(m.entries) + 1,
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	})
	return nil
}

func (m *memAudit) List(_ context.Context, limit, offset int) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditEntry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		out = append(out, m.entries[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var errBoom = errors.New("connection reset by peer")

func itoa(n int) string {
	return strconv.Itoa(n)
}
