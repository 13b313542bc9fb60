package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRender_LayoutPage(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	type post struct {
		ID                   int
		Title                string
		CreatedAt, UpdatedAt time.Time
	}
	rr := httptest.NewRecorder()
	v.Render(rr, http.StatusOK, Dashboard, map[string]any{
		"Title": "Posts",
		"Posts": []post{{ID: 3, Title: "<script>alert(1)</script>", CreatedAt: time.Now()}},
	})

	if rr.Code != http.StatusOK {
		t.Errorf("status %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Posts | StrumSpace Admin") {
		t.Error("layout not applied")
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("title not escaped")
	}
	if !strings.Contains(body, `/delete-post/3?_method=DELETE`) {
		t.Error("delete form missing method override")
	}
}

func TestRender_StandalonePage(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rr := httptest.NewRecorder()
	v.Render(rr, http.StatusUnauthorized, Invalid, nil)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "<nav>") {
		t.Error("public page rendered with admin navigation")
	}
}

func TestRender_UnknownPage(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rr := httptest.NewRecorder()
	v.Render(rr, http.StatusOK, "missing", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", rr.Code)
	}
}

func TestRender_ExecutionErrorWritesNothingPartial(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rr := httptest.NewRecorder()
	// Posts of the wrong shape fail inside the range.
	v.Render(rr, http.StatusOK, Dashboard, map[string]any{"Title": "Posts", "Posts": []int{1}})
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "<table>") {
		t.Error("partial page written")
	}
}
