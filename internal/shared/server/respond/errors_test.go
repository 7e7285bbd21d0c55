package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/apperr"
)

func TestFromErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "validation", err: apperr.NewValidation("empty_job_text", "job description is required"), status: http.StatusBadRequest, code: "empty_job_text"},
		{name: "auth", err: apperr.NewAuthExpired("session_expired", "session expired"), status: http.StatusUnauthorized, code: "session_expired"},
		{name: "not found", err: apperr.NewNotFound("blob_not_found", "blob not found"), status: http.StatusNotFound, code: "blob_not_found"},
		{name: "transient", err: apperr.NewTransient("timeout", "timed out", nil), status: http.StatusServiceUnavailable, code: "timeout"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(resp)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			FromError(c, tc.err)

			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, body.Error.Code)
			}
			if tc.status == http.StatusServiceUnavailable {
				if !body.Error.Retryable || resp.Header().Get("Retry-After") == "" {
					t.Fatalf("transient errors must be retryable with Retry-After")
				}
			} else if body.Error.Retryable {
				t.Fatalf("only transient errors are retryable")
			}
		})
	}
}
