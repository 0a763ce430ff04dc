package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/steeplechat/server/internal/bot"
	"github.com/steeplechat/server/internal/core"
	"github.com/steeplechat/server/internal/notify"
	"github.com/steeplechat/server/internal/rewrite"
	"github.com/steeplechat/server/internal/server"
	"github.com/steeplechat/server/internal/tenant"
	"github.com/steeplechat/server/internal/tenant/repo"
	logx "github.com/steeplechat/server/pkg/logger"
	pkgredis "github.com/steeplechat/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Port        string `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// Components
	Tenant  tenant.StoreConfig
	Rewrite rewrite.Config
	SMTP    notify.SMTPConfig
	Bot     bot.Config
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	cache, err := newTenantCache(envCfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise tenant cache")
	}

	store := tenant.NewStore(envCfg.Tenant.Dir, cache)
	// The default configuration is the floor every lookup can fall back to.
	// Without it the service cannot answer anything, so refuse to start.
	if err := store.ProbeDefault(); err != nil {
		logx.Fatal().Err(err).Msg("default tenant configuration missing or unreadable")
	}

	rewriter, err := rewrite.New(ctx, envCfg.Rewrite)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise rewriter")
	}

	mailer, err := notify.NewSMTPMailer(envCfg.SMTP)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise mailer")
	}

	botRouter := bot.NewRouter(store, rewriter, mailer, envCfg.Bot)
	srv := server.New(botRouter)

	httpServer := &http.Server{
		Addr:         ":" + envCfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logx.Info().Str("port", envCfg.Port).Msg("bot server listening")
	if err := httpServer.ListenAndServe(); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}

func newTenantCache(cfg AppConfig) (tenant.Cache, error) {
	ttl, err := time.ParseDuration(cfg.Tenant.CacheTTL)
	if err != nil {
		return nil, err
	}

	if cfg.Tenant.Backend == "redis" {
		rdb, err := cfg.Redis.New()
		if err != nil {
			return nil, err
		}
		logx.Info().Msg("tenant cache backed by redis")
		return repo.NewRedisConfigCache(rdb, ttl), nil
	}

	return tenant.NewMemoryCache(ttl), nil
}
