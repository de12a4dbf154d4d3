package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/analyses"
	"resume-screener/internal/extract"
	"resume-screener/internal/llm"
	"resume-screener/internal/llm/gemini"
	"resume-screener/internal/llm/openai"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/storage/db"
	"resume-screener/internal/shared/telemetry"
)

var _ analyses.TextExtractor = (*extract.Extractor)(nil)
var _ analyses.Analyzer = (*llm.Requester)(nil)

// Provider constructors, replaceable in tests.
var (
	newGemini = func(ctx context.Context, apiKey, model string) (llm.Completer, error) {
		return gemini.NewClient(ctx, apiKey, model)
	}
	newOpenAI = func(apiKey, model string, timeout time.Duration) (llm.Completer, error) {
		return openai.NewClient(apiKey, model, timeout)
	}
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build connects storage, selects the judgment provider and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo analyses.Repo
	if sqlDB != nil {
		repo = analyses.NewSQLRepo(sqlDB, cfg.DBDriver)
	} else {
		repo = analyses.NewMemoryRepo()
	}

	completer, name, err := buildCompleter(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	svc := &analyses.Service{
		Extractor:       extract.New(),
		Analyzer:        llm.NewRequester(completer, name),
		Repo:            repo,
		AnalysisTimeout: cfg.AnalysisTimeout,
	}
	handler := analyses.NewHandler(svc, cfg.MaxUploadBytes)

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		AnalysesRepo:    repo,
		AnalysesService: svc,
		AnalysisHandler: handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: handler,
	})
	return app, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_fallback", map[string]any{
				"reason": "DATABASE_URL empty; using in-memory store",
			})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DBDriver, cfg.DatabaseURL, opts)
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB, cfg.DBDriver); err != nil {
			_ = sqlDB.Close()
			sqlDB = nil
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_fallback", map[string]any{
				"driver": cfg.DBDriver,
				"error":  err,
			})
			return nil, nil
		}
		return nil, fmt.Errorf("database: %w", err)
	}

	telemetry.Info("bootstrap.db_ready", map[string]any{"driver": cfg.DBDriver})
	return sqlDB, nil
}

// NewCompleter constructs the judgment provider named by cfg.LLMProvider.
func NewCompleter(ctx context.Context, cfg config.Config) (llm.Completer, string, error) {
	switch cfg.LLMProvider {
	case "gemini":
		c, err := newGemini(ctx, cfg.GoogleAPIKey, cfg.LLMModel)
		return c, "gemini", err
	case "openai":
		c, err := newOpenAI(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.AnalysisTimeout)
		return c, "openai", err
	case "none", "":
		return llm.PlaceholderClient{}, "none", nil
	default:
		return nil, "", fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// buildCompleter is NewCompleter with the dev fallback to the placeholder.
func buildCompleter(ctx context.Context, cfg config.Config) (llm.Completer, string, error) {
	completer, name, err := NewCompleter(ctx, cfg)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.llm_disabled", map[string]any{
				"provider": cfg.LLMProvider,
				"error":    err,
			})
			return llm.PlaceholderClient{}, "none", nil
		}
		return nil, "", fmt.Errorf("llm provider %s: %w", cfg.LLMProvider, err)
	}
	if name == "none" {
		telemetry.Warn("bootstrap.llm_disabled", map[string]any{"provider": "none"})
		return completer, name, nil
	}

	telemetry.Info("bootstrap.llm_ready", map[string]any{
		"provider": name,
		"model":    cfg.LLMModel,
	})
	return completer, name, nil
}
