package accounts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/storage/kv"
)

func TestAppendToken(t *testing.T) {
	got, err := appendToken("https://app.example/auth/callback?next=%2Fdashboard", "tok")
	if err != nil {
		t.Fatalf("appendToken: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("token") != "tok" || u.Query().Get("next") != "/dashboard" {
		t.Fatalf("unexpected url %s", got)
	}
	if _, err := appendToken("", "tok"); err == nil {
		t.Fatalf("expected error for empty redirect")
	}
}

func TestGoogleStartStoresState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	states := kv.NewMemoryStore(time.Minute)
	g := NewGoogleSignIn(svc, states, "client", "secret", "http://localhost/cb", "http://localhost/ui")

	r := gin.New()
	g.RegisterRoutes(r.Group("/api/v1"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	loc, err := url.Parse(resp.Header().Get("Location"))
	if err != nil || !strings.Contains(loc.Host, "google") {
		t.Fatalf("unexpected redirect %q", resp.Header().Get("Location"))
	}
	state := loc.Query().Get("state")
	if _, err := states.Get(context.Background(), "oauth_state:"+state); err != nil {
		t.Fatalf("expected state to be stored: %v", err)
	}
}

func TestGoogleCallbackRejectsUnknownState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	g := NewGoogleSignIn(svc, kv.NewMemoryStore(time.Minute), "client", "secret", "http://localhost/cb", "http://localhost/ui")

	r := gin.New()
	g.RegisterRoutes(r.Group("/api/v1"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=forged&code=c", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGoogleStartRequiresConfiguration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	g := NewGoogleSignIn(svc, kv.NewMemoryStore(time.Minute), "", "", "", "")

	r := gin.New()
	g.RegisterRoutes(r.Group("/api/v1"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
