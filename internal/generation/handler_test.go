package generation

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T, f *fixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, middleware.Identity{UserID: "u1"})
		c.Next()
	})
	NewHandler(f.svc).RegisterRoutes(api)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeDraft(t *testing.T, resp *httptest.ResponseRecorder) Draft {
	t.Helper()
	var d Draft
	if err := json.Unmarshal(resp.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return d
}

func TestHandlerGenerationFlow(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)

	resp := do(r, http.MethodPost, "/api/v1/generations", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	id := decodeDraft(t, resp).ID
	base := "/api/v1/generations/" + id

	resp = do(r, http.MethodPost, base+"/analyze", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty job text, got %d", resp.Code)
	}
	if f.suggester.calls.Load() != 0 {
		t.Fatalf("suggester must not be called for blank text")
	}

	resp = do(r, http.MethodPut, base+"/job", gin.H{"text": goJob})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on job text, got %d", resp.Code)
	}
	resp = do(r, http.MethodPost, base+"/next", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on analyze, got %d: %s", resp.Code, resp.Body.String())
	}
	if d := decodeDraft(t, resp); d.Step != StepSelect || len(d.Candidates) != 3 {
		t.Fatalf("unexpected draft %+v", d)
	}

	resp = do(r, http.MethodPost, base+"/candidates/"+f.ids["Dean's List"]+"/pin", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on pin, got %d", resp.Code)
	}

	resp = do(r, http.MethodPost, base+"/next", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on render, got %d: %s", resp.Code, resp.Body.String())
	}
	if d := decodeDraft(t, resp); d.Step != StepPreview || d.Document == nil {
		t.Fatalf("expected preview with document, got %+v", d)
	}

	resp = do(r, http.MethodPost, base+"/feedback", gin.H{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without feedback, got %d", resp.Code)
	}
}

func TestHandlerUnknownGenerationIs404(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)
	resp := do(r, http.MethodGet, "/api/v1/generations/missing", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestHandlerUpload(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)
	id := decodeDraft(t, do(r, http.MethodPost, "/api/v1/generations", nil)).ID

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "posting.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write([]byte(goJob))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generations/"+id+"/job/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if d := decodeDraft(t, resp); d.JobText != goJob {
		t.Fatalf("unexpected job text %q", d.JobText)
	}
}
