package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"resume-builder/internal/accounts"
	"resume-builder/internal/ai"
	"resume-builder/internal/ai/gemini"
	"resume-builder/internal/ai/openai"
	"resume-builder/internal/blobs"
	"resume-builder/internal/bullets"
	"resume-builder/internal/dashboard"
	"resume-builder/internal/generatedresumes"
	"resume-builder/internal/generation"
	"resume-builder/internal/guard"
	"resume-builder/internal/jobdescriptions"
	"resume-builder/internal/onboarding"
	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/retry"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/kv"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/skills"
)

const memoryCleanupInterval = time.Minute

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sqlx.DB
	Redis  *redis.Client
	KV     kv.Store
	Store  object.ObjectStore
	AI     ai.Provider

	Accounts   *accounts.Service
	Guard      *guard.Guard
	Blobs      *blobs.Service
	Onboarding *onboarding.Service
	Generation *generation.Service
	Resumes    *generatedresumes.Service
	Dashboard  *dashboard.Service
}

type repos struct {
	users    accounts.Repo
	profiles profiles.Repo
	blobs    blobs.Repo
	jobs     jobdescriptions.Repo
	resumes  generatedresumes.Repo
	bullets  bullets.Repo
}

// Build connects infrastructure, wires services and mounts routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	telemetry.SetLevel(cfg.LogLevel)

	app := &App{Config: cfg}
	var err error
	if app.DB, err = buildDB(ctx, cfg); err != nil {
		return nil, err
	}
	if app.Redis, app.KV, err = buildKV(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.AI, err = buildProvider(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.wire(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire() error {
	cfg := a.Config
	r := a.repos()

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.SessionTTL, cfg.Env == "production")
	if err != nil {
		return err
	}
	a.Accounts = accounts.NewService(r.users, r.profiles, &accounts.SessionStore{KV: a.KV}, signer)
	a.Guard = &guard.Guard{Sessions: a.Accounts, Profiles: r.profiles}

	bulletSvc := &bullets.Service{Repo: r.bullets}
	a.Resumes = &generatedresumes.Service{Repo: r.resumes, Store: a.Store}
	a.Blobs = blobs.NewService(r.blobs, a.KV)
	a.Dashboard = dashboard.NewService(a.Blobs, a.Resumes, bulletSvc)
	a.Blobs.OnChange = a.Dashboard.Invalidate

	a.Onboarding = onboarding.NewService(a.KV, a.Blobs, r.profiles, cfg.DraftTTL)
	a.Generation = generation.NewService(a.KV, generation.Deps{
		Jobs:      &jobdescriptions.Service{Repo: r.jobs},
		Blobs:     a.Blobs,
		Resumes:   a.Resumes,
		Bullets:   bulletSvc,
		Suggester: a.AI,
		Renderer:  &ai.HTMLRenderer{Writer: a.AI, Store: a.Store},
		Uploads:   a.Store,
	}, cfg.DraftTTL)
	a.Generation.OnChange = a.Dashboard.Invalidate

	deps := server.RouterDeps{
		Config:     cfg,
		Verifier:   a.Accounts,
		Guard:      a.Guard,
		Accounts:   accounts.NewHandler(a.Accounts),
		Onboarding: onboarding.NewHandler(a.Onboarding),
		Blobs:      blobs.NewHandler(a.Blobs),
		Skills:     skills.NewHandler(&skills.Service{Blobs: a.Blobs}),
		Bullets:    bullets.NewHandler(bulletSvc),
		Generation: generation.NewHandler(a.Generation),
		Resumes:    generatedresumes.NewHandler(a.Resumes),
		Dashboard:  dashboard.NewHandler(a.Dashboard),
		Health:     a.healthChecks(),
	}
	if strings.TrimSpace(cfg.GoogleClientID) != "" {
		deps.Google = accounts.NewGoogleSignIn(a.Accounts, a.KV, cfg.GoogleClientID, cfg.GoogleSecret, cfg.GoogleRedirect, cfg.UIRedirectURL)
	}
	if cfg.ObjectStoreType != "s3" {
		deps.Files = a.Store
	}
	a.Router = server.NewRouter(deps)
	return nil
}

func (a *App) repos() repos {
	if a.DB != nil {
		return repos{
			users:    &accounts.PGRepo{DB: a.DB},
			profiles: &profiles.PGRepo{DB: a.DB},
			blobs:    &blobs.PGRepo{DB: a.DB},
			jobs:     &jobdescriptions.PGRepo{DB: a.DB},
			resumes:  &generatedresumes.PGRepo{DB: a.DB},
			bullets:  &bullets.PGRepo{DB: a.DB},
		}
	}
	return repos{
		users:    accounts.NewMemoryRepo(),
		profiles: profiles.NewMemoryRepo(),
		blobs:    blobs.NewMemoryRepo(),
		jobs:     jobdescriptions.NewMemoryRepo(),
		resumes:  generatedresumes.NewMemoryRepo(),
		bullets:  bullets.NewMemoryRepo(),
	}
}

func (a *App) healthChecks() []server.HealthCheck {
	var checks []server.HealthCheck
	if a.DB != nil {
		checks = append(checks, server.HealthCheck{Name: "postgres", Check: a.DB.PingContext})
	}
	if a.Redis != nil {
		checks = append(checks, server.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}})
	}
	return checks
}

// Close releases connections opened by Build.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_missing", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	policy := retry.Policy{MaxAttempts: cfg.RetryMaxAttempts, BaseDelay: cfg.RetryBaseDelay, MaxDelay: 5 * time.Second, Name: "db.connect"}
	sqlDB, err := retry.DoValue(ctx, policy, func(ctx context.Context) (*sql.DB, error) {
		return db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	})
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_unavailable", map[string]any{"fallback": "memory", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return db.Wrap(sqlDB), nil
}

func buildKV(ctx context.Context, cfg config.Config) (*redis.Client, kv.Store, error) {
	if cfg.RedisURL == "" {
		if !cfg.IsDevLike() {
			return nil, nil, errors.New("REDIS_URL is required")
		}
		return nil, kv.NewMemoryStore(memoryCleanupInterval), nil
	}
	client, err := kv.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"fallback": "memory", "error": err.Error()})
			return nil, kv.NewMemoryStore(memoryCleanupInterval), nil
		}
		return nil, nil, err
	}
	return client, &kv.RedisStore{Client: client, Prefix: "rb:"}, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir, ""), nil
	}
}

// buildProvider picks the model backend and wraps it in the retry and breaker guard.
func buildProvider(ctx context.Context, cfg config.Config) (ai.Provider, error) {
	var (
		p   ai.Provider
		err error
	)
	switch cfg.AIProvider {
	case "openai":
		p, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.AIModel, "", cfg.AITimeout)
	case "gemini":
		p, err = gemini.New(ctx, cfg.GeminiAPIKey, cfg.AIModel)
	default:
		p = ai.Heuristic{}
	}
	if err != nil {
		if !cfg.IsDevLike() {
			return nil, err
		}
		telemetry.Warn("bootstrap.ai_provider_unavailable", map[string]any{
			"provider": cfg.AIProvider,
			"fallback": "heuristic",
			"error":    err.Error(),
		})
		p = ai.Heuristic{}
	}
	policy := retry.Policy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    10 * time.Second,
		Name:        "ai." + p.Name(),
	}
	telemetry.Info("bootstrap.ai_provider", map[string]any{"provider": p.Name(), "model": p.Model()})
	return ai.NewGuard(p, policy, cfg.AITimeout), nil
}
