package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/blobs"
	"resume-builder/internal/guard"
	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/kv"
	"resume-builder/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T, checks ...HealthCheck) (*gin.Engine, *local.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := local.New(t.TempDir(), "")
	blobSvc := blobs.NewService(blobs.NewMemoryRepo(), kv.NewMemoryStore(time.Minute))
	r := NewRouter(RouterDeps{
		Config: config.Config{Env: "dev", RequestTimeout: 5 * time.Second},
		Guard:  &guard.Guard{Profiles: profiles.NewMemoryRepo()},
		Blobs:  blobs.NewHandler(blobSvc),
		Files:  store,
		Health: checks,
	})
	return r, store
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestHealthAndReadiness(t *testing.T) {
	r, _ := newTestRouter(t, HealthCheck{Name: "db", Check: func(context.Context) error { return errors.New("down") }})

	if resp := get(r, "/api/v1/health"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp := get(r, "/api/v1/health/ready")
	if resp.Code != http.StatusServiceUnavailable || !strings.Contains(resp.Body.String(), "down") {
		t.Fatalf("expected 503 with failing check, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	r, _ := newTestRouter(t)
	if resp := get(r, "/api/v1/blobs"); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if resp := get(r, "/api/v1/ui/config"); resp.Code != http.StatusOK {
		t.Fatalf("ui config must be public, got %d", resp.Code)
	}
}

func TestFilesServesStoredObjects(t *testing.T) {
	r, store := newTestRouter(t)
	if _, err := store.SaveWithKey(context.Background(), "renders/u1/r1.html", "text/html", strings.NewReader("<p>hi</p>")); err != nil {
		t.Fatalf("save: %v", err)
	}

	resp := get(r, "/api/v1/files/renders/u1/r1.html")
	if resp.Code != http.StatusOK || resp.Body.String() != "<p>hi</p>" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if resp := get(r, "/api/v1/files/renders/u1/missing.html"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestRateLimitGroup(t *testing.T) {
	cases := map[string]string{
		"POST /api/v1/generations/g1/analyze":  aiRateLimitGroup,
		"POST /api/v1/generations/g1/next":     aiRateLimitGroup,
		"POST /api/v1/generations/g1/feedback": aiRateLimitGroup,
		"POST /api/v1/generations/g1/back":     "",
		"GET /api/v1/generations/g1/next":      "",
		"POST /api/v1/blobs":                   "",
	}
	for in, want := range cases {
		parts := strings.SplitN(in, " ", 2)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(parts[0], parts[1], nil)
		if got := rateLimitGroup(c); got != want {
			t.Fatalf("%s: expected %q, got %q", in, want, got)
		}
	}
}
