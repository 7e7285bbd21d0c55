package generation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/extract"
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
	g := rg.Group("/generations")
	g.POST("", h.start)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.discard)
	g.PUT("/:id/job", h.setJobText)
	g.POST("/:id/job/upload", h.upload)
	g.POST("/:id/candidates/:blobId/select", h.toggleSelected)
	g.POST("/:id/candidates/:blobId/pin", h.togglePin)
	g.POST("/:id/back", h.back)
	h.RegisterAIRoutes(g)
}

// RegisterAIRoutes attaches the transitions that call the model provider.
func (h *Handler) RegisterAIRoutes(g *gin.RouterGroup) {
	g.POST("/:id/analyze", h.analyze)
	g.POST("/:id/next", h.next)
	g.POST("/:id/feedback", h.feedback)
}

type jobTextRequest struct {
	Text string `json:"text" binding:"max=50000"`
}

type feedbackRequest struct {
	Feedback string `json:"feedback" binding:"required,max=2000"`
}

func (h *Handler) start(c *gin.Context) {
	d, err := h.Svc.Start(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set(middleware.GenerationIDKey, d.ID)
	respond.Created(c, d)
}

func (h *Handler) get(c *gin.Context) {
	id := h.id(c)
	d, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	write(c, d, err)
}

func (h *Handler) discard(c *gin.Context) {
	if err := h.Svc.Discard(c.Request.Context(), middleware.UserIDFromContext(c), h.id(c)); err != nil {
		respond.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) setJobText(c *gin.Context) {
	id := h.id(c)
	var req jobTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	d, err := h.Svc.SetJobText(c.Request.Context(), middleware.UserIDFromContext(c), id, req.Text)
	write(c, d, err)
}

func (h *Handler) upload(c *gin.Context) {
	id := h.id(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, extract.MaxUploadBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "file_required", "attach the job description as 'file'", nil)
		return
	}
	if fh.Size > extract.MaxUploadBytes {
		respond.FromError(c, extract.ErrTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.FromError(c, err)
		return
	}
	defer f.Close()
	d, err := h.Svc.UploadJobDescription(c.Request.Context(), middleware.UserIDFromContext(c), id, fh.Filename, f)
	write(c, d, err)
}

func (h *Handler) toggleSelected(c *gin.Context) {
	id := h.id(c)
	blobID := c.Param("blobId")
	c.Set(middleware.BlobIDKey, blobID)
	d, err := h.Svc.ToggleSelected(c.Request.Context(), middleware.UserIDFromContext(c), id, blobID)
	write(c, d, err)
}

func (h *Handler) togglePin(c *gin.Context) {
	id := h.id(c)
	blobID := c.Param("blobId")
	c.Set(middleware.BlobIDKey, blobID)
	d, err := h.Svc.TogglePin(c.Request.Context(), middleware.UserIDFromContext(c), id, blobID)
	write(c, d, err)
}

func (h *Handler) back(c *gin.Context) {
	id := h.id(c)
	c.Set(middleware.TransitionKey, "generation.back")
	d, err := h.Svc.Back(c.Request.Context(), middleware.UserIDFromContext(c), id)
	write(c, d, err)
}

func (h *Handler) analyze(c *gin.Context) {
	id := h.id(c)
	c.Set(middleware.TransitionKey, "input->select")
	d, err := h.Svc.Analyze(c.Request.Context(), middleware.UserIDFromContext(c), id)
	write(c, d, err)
}

func (h *Handler) next(c *gin.Context) {
	id := h.id(c)
	c.Set(middleware.TransitionKey, "generation.next")
	d, err := h.Svc.Next(c.Request.Context(), middleware.UserIDFromContext(c), id)
	write(c, d, err)
}

func (h *Handler) feedback(c *gin.Context) {
	id := h.id(c)
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	c.Set(middleware.TransitionKey, "preview->preview")
	d, err := h.Svc.RequestChanges(c.Request.Context(), middleware.UserIDFromContext(c), id, req.Feedback)
	write(c, d, err)
}

func (h *Handler) id(c *gin.Context) string {
	id := c.Param("id")
	c.Set(middleware.GenerationIDKey, id)
	return id
}

func write(c *gin.Context, d Draft, err error) {
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, d)
}
