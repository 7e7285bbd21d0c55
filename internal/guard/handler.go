package guard

import (
	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Guard *Guard
}

func NewHandler(g *Guard) *Handler {
	return &Handler{Guard: g}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session/route", h.route)
}

type routeResponse struct {
	Route              Route  `json:"route"`
	Redirect           string `json:"redirect"`
	UserID             string `json:"userId,omitempty"`
	OnboardingComplete bool   `json:"onboardingComplete"`
}

func (h *Handler) route(c *gin.Context) {
	decision := h.Guard.Evaluate(c.Request.Context(), middleware.BearerToken(c))
	resp := routeResponse{Route: decision.Route, Redirect: decision.Route.Path()}
	if decision.Session != nil {
		resp.UserID = decision.Session.UserID
	}
	if decision.Profile != nil {
		resp.OnboardingComplete = decision.Profile.OnboardingComplete
	}
	respond.OK(c, resp)
}
