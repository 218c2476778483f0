package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scribeworks/veritas/internal/api"
	"github.com/scribeworks/veritas/internal/config"
	"github.com/scribeworks/veritas/internal/configs/env"
	"github.com/scribeworks/veritas/internal/corpus"
	"github.com/scribeworks/veritas/internal/engine"
	"github.com/scribeworks/veritas/internal/infra/mongo"
	redisInfra "github.com/scribeworks/veritas/internal/infra/redis"
	"github.com/scribeworks/veritas/internal/ingest"
	"github.com/scribeworks/veritas/internal/logger"
	"github.com/scribeworks/veritas/internal/repository"
	"github.com/scribeworks/veritas/internal/status"
	"github.com/scribeworks/veritas/internal/stream"
	"github.com/scribeworks/veritas/internal/textproc"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel)
	log.Info().Msg("Starting Veritas server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(ctx)

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	// Repositories over the shared Mongo wrapper
	mongoRepo := repository.NewMongoRepository(mongoClient)
	documentsRepo := repository.NewDocumentsRepository(mongoRepo)
	checksRepo := repository.NewChecksRepository(mongoRepo)

	// Corpus store and text processing
	store := corpus.NewMongoStore(documentsRepo, cfg.MinDocumentLength)
	proc, err := textproc.NewProcessor(cfg.NGramSize, cfg.ShingleSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid text processor configuration")
	}

	ingestSvc := ingest.NewService(store, proc)
	tracker := status.NewTracker(redisClient, cfg.StatusTTL)

	// Worker pool and check engine
	workerPool := engine.NewWorkerPool(ctx)
	defer workerPool.Close()

	opts := engine.DefaultOptions()
	opts.MinSimilarity = cfg.MinSimilarity
	opts.MinCommonWords = cfg.MinCommonWords
	opts.MaxMatches = cfg.MaxMatches
	opts.MinHashCount = cfg.MinHashCount
	opts.Strictness = engine.ParseStrictness(cfg.Strictness)
	opts.Timeout = cfg.CheckTimeout

	checker, err := engine.New(store, proc, workerPool, opts,
		engine.WithReportSink(checksRepo),
		engine.WithStateTracker(tracker),
		engine.WithGrowthTarget(cfg.GrowthTarget),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create check engine")
	}

	// Redis stream consumer for crawler-published documents
	retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey)
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("%s-%s-%d-%s", cfg.RedisConsumerName, hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(
		redisClient.Client,
		cfg.RedisStreamKey,
		cfg.RedisConsumerGroup,
		consumerName,
		ingestSvc,
		retryHandler,
		cfg.StreamRetentionDuration,
	)
	log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer initialized")

	handler := api.NewHandler(checker, ingestSvc, checksRepo, tracker)
	router := api.SetupRoutes(cfg, handler)

	// Start Redis consumer in background
	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Redis consumer error")
		}
	}()
	log.Info().Msg("Redis consumer started")

	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down Gin server")
	}

	log.Info().Msg("Shutdown complete")
}
