package onboarding

import (
	"github.com/gin-gonic/gin"

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
	g := rg.Group("/onboarding")
	g.GET("", h.get)
	g.GET("/steps", h.steps)
	g.POST("/entries", h.addEntry)
	g.PATCH("/entries/:step/:index", h.editEntry)
	g.DELETE("/entries/:step/:index", h.removeEntry)
	g.POST("/next", h.next)
	g.POST("/back", h.back)
	g.POST("/submit", h.submit)
}

type view struct {
	State
	Step     Step          `json:"step"`
	Progress int           `json:"progress"`
	Total    int           `json:"total"`
	Result   *SubmitResult `json:"result,omitempty"`
}

func toView(st State, res *SubmitResult) view {
	return view{State: st, Step: st.Current(), Progress: st.Progress(), Total: len(Steps), Result: res}
}

type addEntryRequest struct {
	Step string `json:"step" binding:"required"`
}

type editEntryRequest struct {
	Field string `json:"field" binding:"required,oneof=title description"`
	Value string `json:"value" binding:"max=8000"`
}

type entryPath struct {
	Step  string `uri:"step" binding:"required"`
	Index int    `uri:"index" binding:"min=0"`
}

func (h *Handler) get(c *gin.Context) {
	st, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c))
	h.write(c, st, nil, err)
}

func (h *Handler) steps(c *gin.Context) {
	respond.OK(c, gin.H{"steps": Steps})
}

func (h *Handler) addEntry(c *gin.Context) {
	var req addEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	st, err := h.Svc.AddEntry(c.Request.Context(), middleware.UserIDFromContext(c), req.Step)
	h.write(c, st, nil, err)
}

func (h *Handler) editEntry(c *gin.Context) {
	var path entryPath
	if err := c.ShouldBindUri(&path); err != nil {
		respond.BindError(c, err)
		return
	}
	var req editEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	st, err := h.Svc.EditEntry(c.Request.Context(), middleware.UserIDFromContext(c), path.Step, path.Index, req.Field, req.Value)
	h.write(c, st, nil, err)
}

func (h *Handler) removeEntry(c *gin.Context) {
	var path entryPath
	if err := c.ShouldBindUri(&path); err != nil {
		respond.BindError(c, err)
		return
	}
	st, err := h.Svc.RemoveEntry(c.Request.Context(), middleware.UserIDFromContext(c), path.Step, path.Index)
	h.write(c, st, nil, err)
}

func (h *Handler) next(c *gin.Context) {
	c.Set(middleware.TransitionKey, "onboarding.next")
	st, res, err := h.Svc.Next(c.Request.Context(), middleware.UserIDFromContext(c))
	h.write(c, st, res, err)
}

func (h *Handler) back(c *gin.Context) {
	c.Set(middleware.TransitionKey, "onboarding.back")
	st, err := h.Svc.Back(c.Request.Context(), middleware.UserIDFromContext(c))
	h.write(c, st, nil, err)
}

func (h *Handler) submit(c *gin.Context) {
	c.Set(middleware.TransitionKey, "onboarding.submit")
	st, res, err := h.Svc.Submit(c.Request.Context(), middleware.UserIDFromContext(c))
	h.write(c, st, res, err)
}

func (h *Handler) write(c *gin.Context, st State, res *SubmitResult, err error) {
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, toView(st, res))
}
