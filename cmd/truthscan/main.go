package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/truthscan/truthscan/pkg/config"
	"github.com/truthscan/truthscan/pkg/history"
	"github.com/truthscan/truthscan/pkg/ml"
	"github.com/truthscan/truthscan/pkg/ratelimit"
	"github.com/truthscan/truthscan/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Load the classifier once, before serving. Failure leaves the
	// process in degraded mode: /analyze answers 503, everything else
	// keeps working.
	classifier := ml.NewClassifier(ml.ClassifierConfig{
		ModelPath:       cfg.ModelPath,
		ArtifactBaseURL: cfg.ArtifactBaseURL,
		ModelRepo:       cfg.ModelRepo,
		ModelVersion:    cfg.ModelVersion,
		OnnxLibraryPath: cfg.OnnxLibraryPath,
		AutoDownload:    cfg.AutoDownloadModel,
	})
	if !classifier.Load() {
		log.Printf("Classifier failed to load. Analysis requests will be rejected.")
	}
	defer func() { _ = classifier.Close() }()

	var store history.Store
	var recorder ml.HistoryRecorder
	if cfg.PostgresDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pg, err := history.Connect(ctx, cfg.PostgresDSN)
		cancel()
		if err != nil {
			log.Printf("History store unavailable: %v", err)
		} else {
			store = pg
			recorder = pg
			defer pg.Close()
		}
	} else {
		log.Printf("No Postgres DSN configured, prediction history disabled")
	}

	limiter := buildLimiter(cfg)
	related := buildRelatedIndex(cfg)

	analyzer := ml.NewAnalyzer(classifier, limiter, recorder, related)

	srv := server.New(cfg, analyzer, classifier, store)
	if err := srv.Listen(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildLimiter selects the Redis-backed limiter when an address is
// configured, otherwise the in-memory one.
func buildLimiter(cfg *config.Config) ml.Limiter {
	window := time.Duration(cfg.RateLimitWindowSecs) * time.Second

	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(cfg.RateLimitRequests, window)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable (%v), using in-memory rate limiter", err)
		return ratelimit.NewMemoryLimiter(cfg.RateLimitRequests, window)
	}

	log.Printf("Rate limiting via Redis at %s", cfg.RedisAddr)
	return ratelimit.NewRedisLimiter(client, cfg.RateLimitRequests, window)
}

// buildRelatedIndex wires the optional similarity index. Any failure
// degrades to running without it.
func buildRelatedIndex(cfg *config.Config) *ml.RelatedIndex {
	if !cfg.RelatedEnabled {
		return nil
	}

	if cfg.AutoDownloadModel {
		if err := ml.EnsureEmbeddingModelDownloaded(cfg.ArtifactBaseURL, cfg.EmbeddingModelPath); err != nil {
			log.Printf("Related-article index disabled: %v", err)
			return nil
		}
	}

	embedder, err := ml.NewEmbedder(cfg.EmbeddingModelPath, cfg.OnnxLibraryPath)
	if err != nil {
		log.Printf("Related-article index disabled: %v", err)
		return nil
	}
	if !embedder.IsReady() {
		log.Printf("Related-article index disabled: embedder not ready")
		_ = embedder.Close()
		return nil
	}

	index, err := ml.NewRelatedIndex(embedder.EmbeddingFunc())
	if err != nil {
		log.Printf("Related-article index disabled: %v", err)
		_ = embedder.Close()
		return nil
	}
	return index
}
