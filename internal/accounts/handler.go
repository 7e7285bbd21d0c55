package accounts

import (
	"net/http"

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

// RegisterRoutes attaches public auth routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signUp)
	rg.POST("/auth/signin", h.signIn)
	rg.POST("/auth/signout", h.signOut)
	rg.GET("/auth/session", h.session)
}

// RegisterProtectedRoutes attaches routes that need a live session.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) signUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	sess, err := h.Svc.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	h.writeSession(c, http.StatusCreated, sess)
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	sess, err := h.Svc.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	h.writeSession(c, http.StatusOK, sess)
}

func (h *Handler) signOut(c *gin.Context) {
	if err := h.Svc.SignOut(c.Request.Context(), middleware.SessionIDFromContext(c)); err != nil {
		respond.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		respond.OK(c, gin.H{"session": nil})
		return
	}
	sess, err := h.Svc.GetSession(c.Request.Context(), token)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"session": sess})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetUser(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, user)
}

func (h *Handler) writeSession(c *gin.Context, status int, sess Session) {
	user, err := h.Svc.GetUser(c.Request.Context(), sess.UserID)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.JSON(c, status, sessionResponse{Session: sess, User: user})
}
