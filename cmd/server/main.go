package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/evapetschnigg/CDA/internal/adapter/cache"
	"github.com/evapetschnigg/CDA/internal/adapter/in_memory"
	"github.com/evapetschnigg/CDA/internal/adapter/pg"
	"github.com/evapetschnigg/CDA/internal/adapter/sqlite"
	apihttp "github.com/evapetschnigg/CDA/internal/api/http"
	"github.com/evapetschnigg/CDA/internal/config"
	"github.com/evapetschnigg/CDA/internal/core"
	"github.com/evapetschnigg/CDA/internal/port"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var repo port.Repository
	if cfg.PostgresDSN != "" {
		pgRepo, err := pg.NewRepo(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("failed to connect to Postgres", zap.Error(err))
		}
		defer pgRepo.Close()
		repo = pgRepo
		logger.Info("using Postgres audit store")
	} else {
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("failed to open sqlite store", zap.String("path", cfg.SQLitePath), zap.Error(err))
		}
		defer store.Close()
		repo = store
		logger.Info("using embedded sqlite audit store", zap.String("path", cfg.SQLitePath))
	}

	var bookCache port.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		defer rc.Close()
		bookCache = rc
		logger.Info("using Redis book cache", zap.String("addr", cfg.RedisAddr))
	} else {
		bookCache = in_memory.NewCache()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	mgr := core.NewManager(logger, repo, bookCache, port.WallClock{})
	server := apihttp.NewHTTPServer(logger, mgr, repo, bookCache, rng)

	logger.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr()))
	if err := server.Run(cfg.HTTPAddr()); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
