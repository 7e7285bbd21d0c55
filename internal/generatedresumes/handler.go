package generatedresumes

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
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
}

type listQuery struct {
	Query  string `form:"q"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

func (h *Handler) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.BindError(c, err)
		return
	}
	items, f, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), ListFilter{Query: q.Query, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, respond.List[GeneratedResume]{Items: items, Limit: f.Limit, Offset: f.Offset})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respond.FromError(c, errResumeNotFound)
		return
	}
	resume, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, resume)
}
