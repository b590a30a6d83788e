// README: Entry point; loads config, builds the app context, starts HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"concierge/internal/app"
	"concierge/internal/config"
	httptransport "concierge/internal/http"
	"concierge/internal/infra"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply SQL migrations before serving")
	migrationDir := flag.String("migrations", "migrations", "migration directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, cfg, logger)
	defer a.Close()

	if *migrate {
		if a.DB == nil {
			logger.Fatal("-migrate requires a reachable CONCIERGE_DB_DSN")
		}
		if err := infra.Migrate(ctx, a.DB, *migrationDir); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
		logger.Info("migrations applied", zap.String("dir", *migrationDir))
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Agent:  a.Concierge,
		Config: cfg.HTTP,
		Logger: logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("concierge api listening", zap.String("addr", cfg.HTTP.Addr), zap.String("env", cfg.Env))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server", zap.Error(err))
		return
	}
	logger.Info("concierge api stopped")
}
