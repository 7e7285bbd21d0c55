package server

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/storage/object"
)

// registerFiles serves objects from a local store at the URLs it hands out.
// Keys carry a random component, so the route needs no session.
func registerFiles(rg *gin.RouterGroup, store object.ObjectStore) {
	rg.GET("/files/*key", func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if key == "" || strings.Contains(key, "..") {
			respond.Error(c, http.StatusBadRequest, "invalid_key", "invalid file key", nil)
			return
		}
		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
				respond.Error(c, http.StatusNotFound, "file_not_found", "file not found", nil)
				return
			}
			respond.FromError(c, err)
			return
		}
		defer rc.Close()

		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Header("Content-Type", ct)
		c.Header("X-Content-Type-Options", "nosniff")
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, rc)
	})
}
