package accounts

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	h := NewHandler(svc)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Authenticate(svc))
	h.RegisterRoutes(api)
	h.RegisterProtectedRoutes(api)
	return r
}

func postJSON(r http.Handler, path string, body any, token string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSignUpSignOutFlow(t *testing.T) {
	r := newTestRouter(t)

	resp := postJSON(r, "/api/v1/auth/signup", gin.H{"email": "a@example.com", "password": "long enough"}, "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created sessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Session.Token == "" || created.User.Email != "a@example.com" {
		t.Fatalf("unexpected response: %+v", created)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+created.Session.Token)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	if me.Code != http.StatusOK {
		t.Fatalf("expected 200 for /me, got %d", me.Code)
	}

	out := postJSON(r, "/api/v1/auth/signout", nil, created.Session.Token)
	if out.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", out.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+created.Session.Token)
	sess := httptest.NewRecorder()
	r.ServeHTTP(sess, req)
	if sess.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after sign-out, got %d", sess.Code)
	}
}

func TestSignUpRejectsInvalidBody(t *testing.T) {
	r := newTestRouter(t)
	resp := postJSON(r, "/api/v1/auth/signup", gin.H{"email": "nope", "password": "short"}, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation_failed" || body.Error.Details["email"] != "email" || body.Error.Details["password"] != "min" {
		t.Fatalf("unexpected error body: %+v", body.Error)
	}
}

func TestSignInBadCredentialsIs401(t *testing.T) {
	r := newTestRouter(t)
	postJSON(r, "/api/v1/auth/signup", gin.H{"email": "a@example.com", "password": "long enough"}, "")
	resp := postJSON(r, "/api/v1/auth/signin", gin.H{"email": "a@example.com", "password": "wrong one"}, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
