package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	defaultSQLiteURL = "file:resumes.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DBDriver        string
	DatabaseURL     string
	LLMProvider     string
	LLMModel        string
	GoogleAPIKey    string
	OpenAIAPIKey    string
	AnalysisTimeout time.Duration
	MaxUploadBytes  int64
	LogLevel        string
	LogFormat       string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; existing env wins.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	driver := normalizeDriver(getEnv("DB_DRIVER", DriverSQLite))
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" && driver == DriverSQLite {
		dbURL = defaultSQLiteURL
	}

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	provider := normalizeProvider(getEnv("LLM_PROVIDER", "gemini"))

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:8501")),
		Env:             env,
		DBDriver:        driver,
		DatabaseURL:     dbURL,
		LLMProvider:     provider,
		LLMModel:        getEnv("LLM_MODEL", defaultModel(provider)),
		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnalysisTimeout: getDuration("ANALYSIS_TIMEOUT", 90*time.Second),
		MaxUploadBytes:  getInt64("MAX_UPLOAD_BYTES", 10<<20),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}
}

// IsDevLike reports whether env allows local fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
		}
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// Plain integers are seconds.
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("config: %s invalid duration %q, using %s", key, raw, def)
	return def
}

func getInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		log.Printf("config: %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

// normalizeDriver folds driver aliases. Unknown names pass through so the
// database layer can reject them.
func normalizeDriver(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "postgres", "postgresql", "pgx":
		return DriverPostgres
	case "mysql":
		return DriverMySQL
	case "sqlite", "sqlite3", "":
		return DriverSQLite
	default:
		return name
	}
}

// normalizeProvider folds provider aliases. Unknown names pass through so
// bootstrap can reject them.
func normalizeProvider(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "none", "placeholder":
		return "none"
	case "":
		return "gemini"
	default:
		return name
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "gemini":
		return "gemini-2.5-flash"
	default:
		return ""
	}
}
