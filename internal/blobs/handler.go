package blobs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const IdempotencyHeader = "Idempotency-Key"

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/blobs", h.list)
	rg.POST("/blobs", h.create)
	rg.GET("/blobs/:id", h.get)
	rg.PATCH("/blobs/:id", h.update)
	rg.DELETE("/blobs/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.BindError(c, err)
		return
	}
	items, f, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), q.Category, q.Query, q.Limit, q.Offset)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, respond.List[View]{Items: ToViews(items), Limit: f.Limit, Offset: f.Offset})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := blobIDParam(c)
	if !ok {
		return
	}
	b, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, ToView(b))
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req.input(), c.GetHeader(IdempotencyHeader))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set(middleware.BlobIDKey, b.ID)
	respond.Created(c, ToView(b))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := blobIDParam(c)
	if !ok {
		return
	}
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, req.patch())
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, ToView(b))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := blobIDParam(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		respond.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// blobIDParam reads :id. Blob ids are UUIDs, so anything else cannot exist.
func blobIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	c.Set(middleware.BlobIDKey, id)
	if _, err := uuid.Parse(id); err != nil {
		respond.FromError(c, errBlobNotFound)
		return "", false
	}
	return id, true
}
