package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobby/job-board-back/internal/aggregate"
	"github.com/jobby/job-board-back/internal/ai"
	"github.com/jobby/job-board-back/internal/cache"
	"github.com/jobby/job-board-back/internal/config"
	"github.com/jobby/job-board-back/internal/domain"
	httpserver "github.com/jobby/job-board-back/internal/http"
	"github.com/jobby/job-board-back/internal/http/handlers"
	"github.com/jobby/job-board-back/internal/provider"
	"github.com/jobby/job-board-back/internal/repository"
	"github.com/jobby/job-board-back/internal/service"
	"github.com/jobby/job-board-back/internal/suggest"
)

func main() {
	logger := log.New(os.Stdout, "[jobby-back] ", log.LstdFlags|log.LUTC|log.Lmicroseconds)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("failed loading .env file: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, repoCloser := setupRepository(ctx, cfg, logger)
	defer repoCloser()

	resultsCache, cacheCloser := setupResultsCache(ctx, cfg, logger)
	defer cacheCloser()

	providerConfig := provider.Config{
		RemotiveBaseURL:  cfg.RemotiveBaseURL,
		AdzunaBaseURL:    cfg.AdzunaBaseURL,
		AdzunaAppID:      cfg.AdzunaAppID,
		AdzunaAppKey:     cfg.AdzunaAppKey,
		AdzunaCountry:    cfg.AdzunaCountry,
		ArbeitnowBaseURL: cfg.ArbeitnowBaseURL,
	}
	aggregator := aggregate.New(
		[]provider.Adapter{
			provider.NewRemotiveAdapter(providerConfig),
			provider.NewAdzunaAdapter(providerConfig),
			provider.NewArbeitnowAdapter(providerConfig),
		},
		aggregate.Config{
			ProviderTimeout: time.Duration(cfg.ProviderTimeoutMS) * time.Millisecond,
			Cache:           resultsCache,
			Logger:          logger,
		},
	)

	completer := ai.NewOpenAIClient(ai.OpenAIClientConfig{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		Model:      cfg.OpenAIModel,
		Timeout:    time.Duration(cfg.OpenAITimeoutMS) * time.Millisecond,
		MaxRetries: cfg.OpenAIMaxRetries,
	})
	suggestionBuilder := suggest.NewBuilder(aggregator, suggest.Config{
		Source:       domain.Source(cfg.SuggestionSource),
		PerTermLimit: cfg.SuggestionPerTermLimit,
		Cap:          cfg.SuggestionCap,
	})
	assistant := service.NewAssistantService(service.AssistantDependencies{
		Completer:   completer,
		Suggestions: suggestionBuilder,
		MaxTokens:   cfg.ChatMaxTokens,
		Temperature: cfg.ChatTemperature,
		Logger:      logger,
	})
	listings := service.NewListingsService(service.ListingsDependencies{
		Repository: repo,
		Searcher:   aggregator,
	})

	api := handlers.NewAPI(handlers.APIDependencies{
		Assistant:           assistant,
		Listings:            listings,
		Searcher:            aggregator,
		SearchDefaultLimit:  cfg.SearchDefaultLimit,
		SimilarDefaultLimit: cfg.SimilarDefaultLimit,
	})
	handler := httpserver.NewRouter(httpserver.RouterDependencies{
		API:            api,
		Logger:         logger,
		AuthToken:      cfg.AuthToken,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Printf("api listening on :%s", cfg.Port)
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
}

func setupRepository(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (repository.ListingsRepository, func()) {
	if cfg.DatabaseURL == "" {
		logger.Printf("DATABASE_URL not configured, using in-memory listings repository")
		return repository.NewMemoryListingsRepository(), func() {}
	}

	pgRepo, err := repository.NewPostgresListingsRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Printf("failed to initialize postgres repository, fallback to memory: %v", err)
		return repository.NewMemoryListingsRepository(), func() {}
	}
	logger.Printf("postgres listings repository initialized")
	return pgRepo, func() {
		pgRepo.Close()
	}
}

func setupResultsCache(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (aggregate.ResultsCache, func()) {
	ttl := time.Duration(cfg.ResultsCacheTTLSeconds) * time.Second
	if cfg.RedisAddr == "" {
		logger.Printf("REDIS_ADDR not configured, using in-memory results cache")
		return cache.NewMemoryResults(cache.Config{
			TTL:        ttl,
			MaxEntries: cfg.ResultsCacheMaxEntries,
		}), func() {}
	}

	redisCache, err := cache.NewRedisResults(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      ttl,
		Logger:   logger,
	})
	if err != nil {
		logger.Printf("failed to initialize redis results cache, fallback to memory: %v", err)
		return cache.NewMemoryResults(cache.Config{
			TTL:        ttl,
			MaxEntries: cfg.ResultsCacheMaxEntries,
		}), func() {}
	}
	logger.Printf("redis results cache initialized")
	return redisCache, func() {
		_ = redisCache.Close()
	}
}
