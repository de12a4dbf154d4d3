package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resume-screener/internal/analyses"
	"resume-screener/internal/llm"
	"resume-screener/internal/shared/config"
)

type stubCompleter struct{}

func (stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return `{"match_score": 50}`, nil
}

func testConfig() config.Config {
	return config.Config{
		Env:             "dev",
		DBDriver:        config.DriverSQLite,
		DatabaseURL:     "file:bootstrap_test?mode=memory&cache=shared&_time_format=sqlite",
		LLMProvider:     "none",
		AnalysisTimeout: time.Second,
		MaxUploadBytes:  1 << 20,
	}
}

func TestBuildWiresSQLiteStore(t *testing.T) {
	app, err := Build(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if app.DB == nil {
		t.Fatalf("expected database handle")
	}
	if _, ok := app.AnalysesRepo.(*analyses.SQLRepo); !ok {
		t.Fatalf("expected SQLRepo, got %T", app.AnalysesRepo)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/resumes", nil))
	if resp.Code != http.StatusOK || strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("unexpected list response %d %s", resp.Code, resp.Body.String())
	}
}

func TestBuildFallsBackToMemoryInDev(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = ""
	app, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := app.AnalysesRepo.(*analyses.MemoryRepo); !ok {
		t.Fatalf("expected MemoryRepo, got %T", app.AnalysesRepo)
	}
}

func TestBuildRequiresDatabaseInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	cfg.DatabaseURL = ""
	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildSelectsProvider(t *testing.T) {
	origGemini, origOpenAI := newGemini, newOpenAI
	t.Cleanup(func() { newGemini, newOpenAI = origGemini, origOpenAI })

	var geminiCalls, openaiCalls int
	newGemini = func(ctx context.Context, apiKey, model string) (llm.Completer, error) {
		geminiCalls++
		return stubCompleter{}, nil
	}
	newOpenAI = func(apiKey, model string, timeout time.Duration) (llm.Completer, error) {
		openaiCalls++
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	cfg := testConfig()
	cfg.DatabaseURL = ""
	cfg.LLMProvider = "gemini"
	app, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build gemini: %v", err)
	}
	requester := app.AnalysesService.Analyzer.(*llm.Requester)
	if geminiCalls != 1 || requester.Name != "gemini" {
		t.Fatalf("expected gemini provider, got %s (calls=%d)", requester.Name, geminiCalls)
	}

	cfg.LLMProvider = "openai"
	app, err = Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build openai in dev: %v", err)
	}
	requester = app.AnalysesService.Analyzer.(*llm.Requester)
	if openaiCalls != 1 || requester.Name != "none" {
		t.Fatalf("expected dev fallback to placeholder, got %s", requester.Name)
	}

	cfg.Env = "production"
	cfg.DatabaseURL = "file:bootstrap_prod?mode=memory&cache=shared"
	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatalf("expected provider error in production")
	}
}

func TestNewCompleterRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLMProvider = "opnai"
	if _, _, err := NewCompleter(context.Background(), cfg); err == nil || !strings.Contains(err.Error(), "unknown LLM_PROVIDER") {
		t.Fatalf("expected unknown provider error, got %v", err)
	}

	cfg.Env = "production"
	cfg.DatabaseURL = "file:bootstrap_unknown_provider?mode=memory&cache=shared&_time_format=sqlite"
	_, err := Build(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "unknown LLM_PROVIDER") {
		t.Fatalf("expected unknown provider error in production, got %v", err)
	}
}

func TestBuildRejectsUnknownDriverInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	cfg.DBDriver = "postgress"
	cfg.DatabaseURL = "postgres://u:p@localhost/db"
	_, err := Build(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "unsupported database driver") {
		t.Fatalf("expected unsupported driver error, got %v", err)
	}
}
