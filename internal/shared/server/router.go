package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/accounts"
	"resume-builder/internal/blobs"
	"resume-builder/internal/bullets"
	"resume-builder/internal/dashboard"
	"resume-builder/internal/generatedresumes"
	"resume-builder/internal/generation"
	"resume-builder/internal/guard"
	"resume-builder/internal/onboarding"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/skills"
	"resume-builder/internal/ui"
)

const aiRateLimitGroup = "AI"

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config     config.Config
	Verifier   middleware.SessionVerifier
	Guard      *guard.Guard
	Accounts   *accounts.Handler
	Google     *accounts.GoogleSignIn
	Onboarding *onboarding.Handler
	Blobs      *blobs.Handler
	Skills     *skills.Handler
	Bullets    *bullets.Handler
	Generation *generation.Handler
	Resumes    *generatedresumes.Handler
	Dashboard  *dashboard.Handler
	// Files serves locally stored objects. Nil when objects live in S3.
	Files   object.ObjectStore
	Health  []HealthCheck
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Timeout(deps.Config.RequestTimeout),
		middleware.Authenticate(deps.Verifier),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateLimitRules(),
			GroupFor: rateLimitGroup,
			Limiter:  deps.Limiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	registerHealth(api, deps.Health)
	ui.RegisterRoutes(api)
	if deps.Files != nil {
		registerFiles(api, deps.Files)
	}
	if deps.Guard != nil {
		guard.NewHandler(deps.Guard).RegisterRoutes(api)
	}
	if deps.Accounts != nil {
		deps.Accounts.RegisterRoutes(api)
	}
	if deps.Google != nil {
		deps.Google.RegisterRoutes(api)
	}

	// signed in, onboarding not required
	session := api.Group("", guard.RequireSession())
	if deps.Accounts != nil {
		deps.Accounts.RegisterProtectedRoutes(session)
	}
	if deps.Onboarding != nil {
		deps.Onboarding.RegisterRoutes(session)
	}

	// signed in and onboarded
	onboarded := session.Group("")
	if deps.Guard != nil {
		onboarded.Use(deps.Guard.RequireOnboarded())
	}
	if deps.Blobs != nil {
		deps.Blobs.RegisterRoutes(onboarded)
	}
	if deps.Skills != nil {
		deps.Skills.RegisterRoutes(onboarded)
	}
	if deps.Bullets != nil {
		deps.Bullets.RegisterRoutes(onboarded)
	}
	if deps.Generation != nil {
		deps.Generation.RegisterRoutes(onboarded)
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(onboarded)
	}
	if deps.Dashboard != nil {
		deps.Dashboard.RegisterRoutes(onboarded)
	}

	return r
}

func rateLimitRules() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		"DEFAULT":        {Rate: 10, Burst: 40},
		aiRateLimitGroup: {Rate: 0.2, Burst: 5},
	}
}

// rateLimitGroup puts the transitions that reach the model provider in the AI group.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	path := c.Request.URL.Path
	if !strings.HasPrefix(path, "/api/v1/generations/") {
		return ""
	}
	for _, suffix := range []string{"/analyze", "/next", "/feedback"} {
		if strings.HasSuffix(path, suffix) {
			return aiRateLimitGroup
		}
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

// NewHTTPServer wraps the router with the timeouts used in every environment.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
