// README: Application context; builds every client and service once at startup.
package app

import (
	"context"
	"io"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"concierge/internal/ai"
	"concierge/internal/config"
	"concierge/internal/infra"
	"concierge/internal/maps"
	"concierge/internal/modules/booking"
	"concierge/internal/modules/conversation"
	"concierge/internal/modules/property"
	"concierge/internal/modules/quota"
	"concierge/internal/search"
	"concierge/internal/service"
)

// App owns the process-wide clients. Handlers receive the Concierge from it;
// nothing is initialised at import time.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Model     ai.Model
	Concierge *service.Concierge
}

// New wires the application. Missing or failing integrations are logged and
// replaced by their unavailable variants, so New never fails.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN, cfg.DB.MaxConns)
		if err != nil {
			logger.Warn("database unavailable", zap.Error(err))
		} else {
			a.DB = pool
		}
	} else {
		logger.Warn("CONCIERGE_DB_DSN not set; persistence disabled")
	}

	var counter quota.Counter
	if cfg.Redis.Addr != "" && cfg.Quota.Monthly > 0 {
		a.Redis = infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password)
		counter = quota.NewStore(a.Redis)
	}

	a.Model = ai.New(ctx, ai.Options{
		Provider:      cfg.AI.Provider,
		OpenAIKey:     cfg.AI.OpenAIKey,
		OpenAIModel:   cfg.AI.OpenAIModel,
		OpenAIBaseURL: cfg.AI.OpenAIBaseURL,
		GeminiKey:     cfg.AI.GeminiKey,
		GeminiModel:   cfg.AI.GeminiModel,
		Temperature:   cfg.AI.Temperature,
		HTTPClient:    &http.Client{},
	})
	if u, ok := a.Model.(ai.Unavailable); ok {
		logger.Warn("language model unavailable", zap.String("reason", u.Reason))
	} else {
		logger.Info("language model configured", zap.String("model", a.Model.Name()))
	}

	gateway := search.NewGateway(newWebSearcher(cfg, logger), newPlacesSearcher(cfg, logger), cfg.Search.Timeout, logger)

	a.Concierge = service.NewConcierge(service.Deps{
		Model:         a.Model,
		Search:        gateway,
		Bookings:      booking.NewService(booking.NewStore(a.DB), logger),
		Properties:    property.NewService(property.NewStore(a.DB), logger),
		Conversations: conversation.NewService(conversation.NewStore(a.DB), logger),
		Quota:         quota.NewService(counter, cfg.Quota.Monthly, logger),
		Logger:        logger,
	}, service.Options{
		ModelTimeout:       cfg.AI.Timeout,
		HistoryLimit:       cfg.Context.HistoryLimit,
		ContextBudget:      cfg.Context.BudgetChars,
		DatabaseConfigured: a.DB != nil,
	})
	return a
}

func newWebSearcher(cfg config.Config, logger *zap.Logger) search.Searcher {
	if cfg.Search.TavilyKey == "" {
		logger.Warn("TAVILY_API_KEY not set; web search disabled")
		return search.Unavailable{}
	}
	s, err := search.NewTavilySearcher(cfg.Search.TavilyKey, cfg.Search.TavilyURL, cfg.Search.MaxResults, &http.Client{})
	if err != nil {
		logger.Warn("web search unavailable", zap.Error(err))
		return search.Unavailable{}
	}
	return s
}

func newPlacesSearcher(cfg config.Config, logger *zap.Logger) search.Searcher {
	if cfg.Search.MapsKey == "" {
		return search.Unavailable{}
	}
	s, err := maps.NewPlacesService(cfg.Search.MapsKey, cfg.Search.MaxResults)
	if err != nil {
		logger.Warn("places search unavailable", zap.Error(err))
		return search.Unavailable{}
	}
	return s
}

// Close releases clients in reverse order of construction.
func (a *App) Close() {
	if c, ok := a.Model.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.Logger.Warn("close model client", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
	_ = a.Logger.Sync()
}
