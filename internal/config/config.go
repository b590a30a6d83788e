// README: Config loader; .env + optional concierge.yaml + environment, with defaults for every key.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider names accepted by CONCIERGE_LLM_PROVIDER.
const (
	ProviderAuto   = "auto"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5000",
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:5175",
	"http://localhost:5176",
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	RatePerMinute   int
	RateBurst       int
}

type AIConfig struct {
	Provider      string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiModel   string
	Temperature   float64
	Timeout       time.Duration
}

type SearchConfig struct {
	TavilyKey  string
	TavilyURL  string
	MapsKey    string
	Timeout    time.Duration
	MaxResults int
}

type ContextConfig struct {
	HistoryLimit int
	BudgetChars  int
}

type Config struct {
	Env      string
	LogLevel string
	HTTP     HTTPConfig
	DB       struct {
		DSN      string
		MaxConns int
	}
	Redis struct {
		Addr     string
		Password string
	}
	Quota struct {
		Monthly int
	}
	AI      AIConfig
	Search  SearchConfig
	Context ContextConfig
}

// IsProduction reports whether the process runs with production logging and gin release mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() (Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("concierge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	cfg.Env = v.GetString("CONCIERGE_ENV")
	cfg.LogLevel = v.GetString("CONCIERGE_LOG_LEVEL")

	cfg.HTTP.Addr = v.GetString("CONCIERGE_HTTP_ADDR")
	cfg.HTTP.ShutdownTimeout = v.GetDuration("CONCIERGE_SHUTDOWN_TIMEOUT")
	cfg.HTTP.CORSOrigins = splitList(v.GetString("CONCIERGE_CORS_ORIGINS"))
	cfg.HTTP.RatePerMinute = v.GetInt("CONCIERGE_RATE_PER_MIN")
	cfg.HTTP.RateBurst = v.GetInt("CONCIERGE_RATE_BURST")

	cfg.DB.DSN = v.GetString("CONCIERGE_DB_DSN")
	cfg.DB.MaxConns = v.GetInt("CONCIERGE_DB_MAX_CONNS")

	cfg.Redis.Addr = v.GetString("CONCIERGE_REDIS_ADDR")
	cfg.Redis.Password = v.GetString("CONCIERGE_REDIS_PASSWORD")
	cfg.Quota.Monthly = v.GetInt("CONCIERGE_QUOTA_MONTHLY")

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(v.GetString("CONCIERGE_LLM_PROVIDER")))
	cfg.AI.OpenAIKey = v.GetString("OPENAI_API_KEY")
	cfg.AI.OpenAIModel = v.GetString("CONCIERGE_OPENAI_MODEL")
	cfg.AI.OpenAIBaseURL = v.GetString("CONCIERGE_OPENAI_BASE_URL")
	cfg.AI.GeminiKey = v.GetString("GEMINI_API_KEY")
	cfg.AI.GeminiModel = v.GetString("CONCIERGE_GEMINI_MODEL")
	cfg.AI.Temperature = v.GetFloat64("CONCIERGE_LLM_TEMPERATURE")
	cfg.AI.Timeout = v.GetDuration("CONCIERGE_MODEL_TIMEOUT")

	cfg.Search.TavilyKey = v.GetString("TAVILY_API_KEY")
	cfg.Search.TavilyURL = v.GetString("CONCIERGE_TAVILY_URL")
	cfg.Search.MapsKey = v.GetString("GOOGLE_MAPS_API_KEY")
	cfg.Search.Timeout = v.GetDuration("CONCIERGE_SEARCH_TIMEOUT")
	cfg.Search.MaxResults = v.GetInt("CONCIERGE_SEARCH_MAX_RESULTS")

	cfg.Context.HistoryLimit = v.GetInt("CONCIERGE_HISTORY_LIMIT")
	cfg.Context.BudgetChars = v.GetInt("CONCIERGE_CONTEXT_BUDGET")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("CONCIERGE_ENV", "development")
	v.SetDefault("CONCIERGE_LOG_LEVEL", "info")
	v.SetDefault("CONCIERGE_HTTP_ADDR", ":8000")
	v.SetDefault("CONCIERGE_SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("CONCIERGE_CORS_ORIGINS", strings.Join(defaultCORSOrigins, ","))
	v.SetDefault("CONCIERGE_RATE_PER_MIN", 120)
	v.SetDefault("CONCIERGE_RATE_BURST", 20)
	v.SetDefault("CONCIERGE_DB_DSN", "")
	v.SetDefault("CONCIERGE_DB_MAX_CONNS", 5)
	v.SetDefault("CONCIERGE_REDIS_ADDR", "")
	v.SetDefault("CONCIERGE_REDIS_PASSWORD", "")
	v.SetDefault("CONCIERGE_QUOTA_MONTHLY", 0)
	v.SetDefault("CONCIERGE_LLM_PROVIDER", ProviderAuto)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("CONCIERGE_OPENAI_MODEL", "gpt-4")
	v.SetDefault("CONCIERGE_OPENAI_BASE_URL", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("CONCIERGE_GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("CONCIERGE_LLM_TEMPERATURE", 0.7)
	v.SetDefault("CONCIERGE_MODEL_TIMEOUT", 60*time.Second)
	v.SetDefault("TAVILY_API_KEY", "")
	v.SetDefault("CONCIERGE_TAVILY_URL", "https://api.tavily.com/search")
	v.SetDefault("GOOGLE_MAPS_API_KEY", "")
	v.SetDefault("CONCIERGE_SEARCH_TIMEOUT", 15*time.Second)
	v.SetDefault("CONCIERGE_SEARCH_MAX_RESULTS", 5)
	v.SetDefault("CONCIERGE_HISTORY_LIMIT", 10)
	v.SetDefault("CONCIERGE_CONTEXT_BUDGET", 12000)
}

func (c Config) validate() error {
	switch c.AI.Provider {
	case ProviderAuto, ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		return errors.New("CONCIERGE_LLM_PROVIDER must be one of auto, openai, gemini, none")
	}
	if c.DB.MaxConns <= 0 {
		return errors.New("CONCIERGE_DB_MAX_CONNS must be positive")
	}
	if c.Search.MaxResults <= 0 || c.Search.MaxResults > 5 {
		return errors.New("CONCIERGE_SEARCH_MAX_RESULTS must be between 1 and 5")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
