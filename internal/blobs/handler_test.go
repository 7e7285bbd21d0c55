package blobs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

func newTestRouter(t *testing.T, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService()
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, middleware.Identity{UserID: userID})
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func do(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHandlerCreateListDelete(t *testing.T) {
	r := newTestRouter(t, "u1")

	resp := do(r, http.MethodPost, "/api/v1/blobs", gin.H{
		"category":    "work_experience",
		"title":       "Software Engineering Intern",
		"description": "Wrote Go services",
	}, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created View
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.CategoryLabel == "" || created.DescriptionWordCount != 3 {
		t.Fatalf("unexpected view: %+v", created)
	}

	list := do(r, http.MethodGet, "/api/v1/blobs?category=all&q=INTERN", nil, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", list.Code)
	}
	var page respond.List[View]
	if err := json.Unmarshal(list.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", page.Items)
	}

	del := do(r, http.MethodDelete, "/api/v1/blobs/"+created.ID, nil, nil)
	if del.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", del.Code)
	}
	again := do(r, http.MethodDelete, "/api/v1/blobs/"+created.ID, nil, nil)
	if again.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", again.Code)
	}
}

func TestHandlerRejectsUnknownCategoryFilter(t *testing.T) {
	r := newTestRouter(t, "u1")
	resp := do(r, http.MethodGet, "/api/v1/blobs?category=hobbies", nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerCreateRequiresTitle(t *testing.T) {
	r := newTestRouter(t, "u1")
	resp := do(r, http.MethodPost, "/api/v1/blobs", gin.H{"category": "project"}, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerIdempotencyKey(t *testing.T) {
	r := newTestRouter(t, "u1")
	body := gin.H{"category": "award", "title": "Hackathon winner"}
	headers := map[string]string{IdempotencyHeader: "abc"}

	first := do(r, http.MethodPost, "/api/v1/blobs", body, headers)
	second := do(r, http.MethodPost, "/api/v1/blobs", body, headers)
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("unexpected codes %d %d", first.Code, second.Code)
	}
	var a, b View
	_ = json.Unmarshal(first.Body.Bytes(), &a)
	_ = json.Unmarshal(second.Body.Bytes(), &b)
	if a.ID != b.ID {
		t.Fatalf("expected the same blob, got %s and %s", a.ID, b.ID)
	}

	list := do(r, http.MethodGet, "/api/v1/blobs", nil, nil)
	var page respond.List[View]
	_ = json.Unmarshal(list.Body.Bytes(), &page)
	if len(page.Items) != 1 {
		t.Fatalf("expected one blob, got %d", len(page.Items))
	}
}

func TestHandlerPatch(t *testing.T) {
	r := newTestRouter(t, "u1")
	resp := do(r, http.MethodPost, "/api/v1/blobs", gin.H{"category": "project", "title": "Compiler"}, nil)
	var created View
	_ = json.Unmarshal(resp.Body.Bytes(), &created)

	patch := do(r, http.MethodPatch, "/api/v1/blobs/"+created.ID, gin.H{"tags": []string{"rust", "llvm"}}, nil)
	if patch.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", patch.Code, patch.Body.String())
	}
	var updated View
	_ = json.Unmarshal(patch.Body.Bytes(), &updated)
	if updated.Title != "Compiler" || len(updated.Tags) != 2 {
		t.Fatalf("unexpected patch result: %+v", updated)
	}
}

func TestHandlerMalformedIDIsNotFoundWithoutQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, mock := newMockRepo(t)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, middleware.Identity{UserID: "u1"})
		c.Next()
	})
	NewHandler(NewService(repo, nil)).RegisterRoutes(api)

	cases := []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPatch, gin.H{"title": "x"}},
		{http.MethodDelete, nil},
	}
	for _, tc := range cases {
		resp := do(r, tc.method, "/api/v1/blobs/abc", tc.body, nil)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d: %s", tc.method, resp.Code, resp.Body.String())
		}
		var body respond.ErrorResponse
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error.Code != "blob_not_found" {
			t.Fatalf("%s: unexpected code %q", tc.method, body.Error.Code)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected queries: %v", err)
	}
}
