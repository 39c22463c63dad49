package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/chunker"
	"github.com/finsight-cloud/docqa/internal/config"
	"github.com/finsight-cloud/docqa/internal/db"
	dbRedis "github.com/finsight-cloud/docqa/internal/db/redis"
	"github.com/finsight-cloud/docqa/internal/domain"
	"github.com/finsight-cloud/docqa/internal/index/pdfindex"
	logpkg "github.com/finsight-cloud/docqa/internal/logger"
	"github.com/finsight-cloud/docqa/internal/metrics"
	"github.com/finsight-cloud/docqa/internal/repository/docstore"
	"github.com/finsight-cloud/docqa/internal/repository/embcache"
	"github.com/finsight-cloud/docqa/internal/repository/filestore"
	"github.com/finsight-cloud/docqa/internal/repository/indexstore"
	chiTransport "github.com/finsight-cloud/docqa/internal/transport/chi"
	openaiTransport "github.com/finsight-cloud/docqa/internal/transport/openai"
	documentuc "github.com/finsight-cloud/docqa/internal/usecase/document"
	healthuc "github.com/finsight-cloud/docqa/internal/usecase/health"
	ingestuc "github.com/finsight-cloud/docqa/internal/usecase/ingest"
	queryuc "github.com/finsight-cloud/docqa/internal/usecase/query"
	"github.com/finsight-cloud/docqa/internal/usecase/refine"
	"github.com/finsight-cloud/docqa/internal/version"
	"github.com/finsight-cloud/docqa/internal/watcher"
	"github.com/finsight-cloud/docqa/internal/worker"
)

const (
	serviceName = "docqa"
	fileExt     = ".pdf"
)

func main() {
	// Load .env for the API credential before reading config
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(serviceName, env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting document Q&A API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("chat_model", cfg.LLM.ChatModel),
		zap.String("embedding_model", cfg.LLM.EmbeddingModel),
	)

	hasCredential := cfg.LLM.APIKey != ""
	if !hasCredential {
		logger.Warn("No LLM API key configured; running degraded " +
			"(index materialization will fail, queries fall back to raw answers)")
	}

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	chat := openaiTransport.NewChat(&openaiTransport.ChatConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.ChatModel,
		Temperature: cfg.LLM.Temperature,
		Logger:      logger,
	})

	// Embedder chain: base provider, optionally wrapped by the Redis cache
	var embedder domain.Embedder = openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.EmbeddingModel,
		Dimensions: cfg.LLM.Dimensions,
		Logger:     logger,
	})
	if len(cfg.Cache.Addrs) > 0 {
		var kv db.KV
		kv, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create embedding cache store", zap.Error(err))
		}
		defer kv.Close()
		embedder = embcache.New(embedder, kv, 30*24*time.Hour, metrics.EmbeddingCacheTotal, logger)
		logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Stores
	docs := docstore.New()
	indexes := indexstore.New()
	files, err := filestore.New(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal("Failed to create upload store", zap.Error(err))
	}

	// Background materialization pool
	pool := worker.NewPool(cfg.Worker.Concurrency, cfg.Worker.QueueSize, logger)

	builder := pdfindex.NewBuilder(
		embedder, chat,
		chunker.New(cfg.Ingest.ChunkSentences, cfg.Ingest.ChunkOverlap),
		cfg.Query.RetrievalTopK,
		logger,
	)

	// Use case services
	ingestSvc := ingestuc.New(docs, indexes, files, builder, pool, fileExt, logger)

	// Pass nil interface (not typed nil pointer!) when refinement is off.
	var refiner queryuc.Refiner
	if *cfg.Query.RefineEnabled && hasCredential {
		refiner = refine.New(chat)
	}
	querySvc := queryuc.New(
		docs, indexes, refiner,
		cfg.Query.MaxSources, cfg.Query.SourcePreviewLen, cfg.Query.Confidence,
		logger,
	)
	docSvc := documentuc.New(docs, indexes, files, logger)

	var providerChecker healthuc.ProviderChecker
	if hasCredential {
		providerChecker = chat
	}
	healthSvc := healthuc.New(providerChecker)

	// HTTP server
	server := chiTransport.NewServer(
		ingestSvc, querySvc, docSvc, healthSvc,
		cfg.Uploads.MaxUploadMB*1024*1024,
		logger,
	)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	// Optional watch-folder auto-ingestion
	if cfg.Watch.Dir != "" {
		w, watchErr := watcher.New(cfg.Watch.Dir, fileExt, ingestSvc, logger)
		if watchErr != nil {
			logger.Fatal("Failed to create directory watcher", zap.Error(watchErr))
		}
		w.Start()
		defer w.Stop()
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Drain queued materializations so accepted uploads do not strand in processing
	pool.Stop()

	logger.Info("Server stopped gracefully")
}
