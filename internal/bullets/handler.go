package bullets

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/blobs/:id/bullets", h.listByBlob)
}

func (h *Handler) listByBlob(c *gin.Context) {
	blobID := c.Param("id")
	c.Set(middleware.BlobIDKey, blobID)
	if _, err := uuid.Parse(blobID); err != nil {
		// no blob can have this id, so it has no versions
		respond.OK(c, gin.H{"items": []Version{}})
		return
	}
	items, err := h.Svc.ListByBlob(c.Request.Context(), middleware.UserIDFromContext(c), blobID)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"items": items})
}
