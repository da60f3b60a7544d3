package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resume-builder/internal/ai"
	"resume-builder/internal/email"
	"resume-builder/internal/export"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/share"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Redis          *redis.Client
	UsersService   *users.Service
	ResumesService *resumes.Service
	AIService      *ai.Service
	ShareService   *share.Service
	Health         *health.Service
	Metrics        *metrics.Registry

	closers []func() error
}

// Build prepares dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg, Health: health.NewService()}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		app.DB = sqlDB
		app.closers = append(app.closers, sqlDB.Close)
		app.Health.Register("database", sqlDB.PingContext)
	}

	app.Redis = buildRedis(ctx, cfg)
	if app.Redis != nil {
		app.closers = append(app.closers, app.Redis.Close)
		app.Health.Register("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		})
	}

	if err := buildServices(ctx, app); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.ServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildRedis(ctx context.Context, cfg config.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		telemetry.Warn("bootstrap.redis.unavailable", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
		_ = client.Close()
		return nil
	}
	return client
}

// buildModel returns a nil Model when no credential is configured, which
// switches the AI routes to canned results.
func buildModel(ctx context.Context, cfg config.Config) (ai.Model, func() error, error) {
	switch cfg.LLMProvider {
	case "openai":
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return nil, nil, nil
		}
		model, err := ai.NewOpenAI(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL, cfg.LLMTimeout)
		if err != nil {
			return nil, nil, err
		}
		return model, nil, nil
	case "gemini", "":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, nil, nil
		}
		model, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
		return model, model.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func buildSender(cfg config.Config) email.Sender {
	if !cfg.SMTPConfigured() {
		return nil
	}
	sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
	if err != nil {
		telemetry.Warn("bootstrap.smtp.disabled", map[string]any{"error": err.Error()})
		return nil
	}
	return sender
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	var userRepo users.Repo
	var resumeRepo resumes.Repo
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
	}

	var revocations auth.RevocationStore
	if app.Redis != nil {
		revocations = auth.NewRedisRevocationStore(app.Redis)
	}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL, revocations)

	model, closeModel, err := buildModel(ctx, cfg)
	if err != nil {
		return err
	}
	if closeModel != nil {
		app.closers = append(app.closers, closeModel)
	}
	if model == nil {
		telemetry.Warn("bootstrap.llm.canned", map[string]any{"provider": cfg.LLMProvider})
	}

	var browser share.PDFRenderer
	if cfg.BrowserPDF {
		browser = export.NewBrowserRenderer(cfg.ChromePath, cfg.ConversionTimeout)
	}
	sender := buildSender(cfg)
	if sender == nil {
		telemetry.Warn("bootstrap.smtp.mock", nil)
	}

	app.UsersService = users.NewService(userRepo, tokens)
	app.Metrics = metrics.New()
	converter := export.NewConverter(cfg.ConversionTimeout)
	converter.Metrics = app.Metrics
	app.ResumesService = resumes.NewService(resumeRepo, converter)
	app.AIService = ai.NewService(model, app.ResumesService, app.UsersService)
	app.AIService.Metrics = app.Metrics
	app.ShareService = share.NewService(app.ResumesService, sender, browser)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Tokens:        tokens,
		Metrics:       app.Metrics,
		Health:        app.Health,
		UserHandler:   users.NewHandler(app.UsersService, cfg.IsProduction()),
		ResumeHandler: resumes.NewHandler(app.ResumesService),
		AIHandler:     ai.NewHandler(app.AIService),
		ShareHandler:  share.NewHandler(app.ShareService),
		AILimiter: middleware.NewLimiter(middleware.Quota{
			PerSecond: cfg.AIRatePerSec,
			Burst:     cfg.AIRateBurst,
		}, time.Now),
	})
	return nil
}
