package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/analytics/aggregator"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/api"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/cards"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/session"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/suggestcache"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, nil)
	slog.Info("starting card search service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(nil)
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownMetrics(shutdownCtx)
		}()
	}

	sess := session.New(session.Options{
		Delimiter:      cfg.Data.Delimiter(),
		PatternTimeout: cfg.Search.PatternTimeout,
		Metrics:        m,
	})
	loaded, err := cards.LoadFile(cfg.Data.CardsFile)
	if err != nil {
		slog.Warn("card data unavailable, starting with an empty vocabulary", "path", cfg.Data.CardsFile, "error", err)
	} else {
		sess.LoadCards(loaded)
	}

	checker := health.NewChecker()
	checker.Register("vocabulary", func(ctx context.Context) health.ComponentHealth {
		stats := sess.Stats()
		if stats.Terms == 0 {
			return health.ComponentHealth{Status: health.StatusDown, Message: "vocabulary is empty"}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d terms, %d cards", stats.Terms, stats.Cards)}
	})

	if cfg.Postgres.Enabled {
		db, err := postgres.New(cfg.Postgres)
		if err != nil {
			slog.Warn("postgres unavailable, query counts will not persist", "error", err)
		} else {
			defer db.Close()
			store := aggregator.NewStore(db)
			if err := store.EnsureSchema(ctx); err != nil {
				slog.Error("failed to prepare query count schema", "error", err)
				os.Exit(1)
			}
			restored, err := store.LoadCounts(ctx)
			if err != nil {
				slog.Warn("failed to restore query counts", "error", err)
			}
			for _, e := range restored {
				sess.AddQueryCount(e.Key, e.Score)
			}
			slog.Info("query counts restored", "queries", len(restored))
			store.StartPeriodicSave(ctx, sess.QueryEntries, cfg.Analytics.SnapshotInterval)
			checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
				if err := db.Ping(ctx); err != nil {
					return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
				}
				return health.ComponentHealth{Status: health.StatusUp}
			})
		}
	}

	var spellCache *suggestcache.Cache
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, spell-check caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			spellCache = suggestcache.New(redisClient, cfg.Redis.CacheTTL, m)
			slog.Info("spell-check cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
			checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
				if err := redisClient.Ping(ctx); err != nil {
					return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
				}
				return health.ComponentHealth{Status: health.StatusUp}
			})
		}
	}

	var tracker api.QueryTracker
	if cfg.Kafka.Enabled {
		topic := cfg.Kafka.Topics.QueryEvents
		producer := kafka.NewProducer(cfg.Kafka, topic)
		defer producer.Close()

		collector := analytics.NewCollector(producer, analytics.CollectorConfig{BufferSize: cfg.Analytics.BufferSize})
		collector.Start(ctx)
		defer collector.Close()
		tracker = collector

		agg := analytics.NewAggregator(sess)
		consumer := kafka.NewConsumer(cfg.Kafka, topic, agg.HandleMessage)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				slog.Error("query event consumer error", "error", err)
			}
		}()
		slog.Info("query event pipeline started", "topic", topic, "brokers", cfg.Kafka.Brokers)
	}

	h := api.New(sess, api.Options{
		Cache:       spellCache,
		Tracker:     tracker,
		PagesDir:    cfg.Data.PagesDir,
		DefaultTopK: cfg.Search.DefaultTopK,
		MaxTopK:     cfg.Search.MaxTopK,
	})

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if cfg.RateLimit.RequestsPerWindow > 0 {
		limiter := middleware.NewLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)
		go limiter.RunCleanup(ctx, cfg.RateLimit.Window)
		chain = middleware.RateLimit(limiter)(chain)
	}
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("card search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("card search service stopped")
}
