package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"nthora.app/server/common/graph"
	"nthora.app/server/common/id"
	"nthora.app/server/common/logger"
	"nthora.app/server/common/otel"
	"nthora.app/server/core/config"
	"nthora.app/server/core/db"
	"nthora.app/server/internal/classify"
	"nthora.app/server/internal/http/middleware"
	httprouter "nthora.app/server/internal/http/router"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/search"
	"nthora.app/server/internal/service"
	"nthora.app/server/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "nthora starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Events.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Events.RedisStream)

	eventProducer := queue.NewRedisProducer(redisClient, cfg.Events.RedisStream, nil)
	defer eventProducer.Close()

	var remote classify.Remote
	if cfg.Classifier.Enabled() {
		remote, err = classify.NewOpenAIRemote(classify.Config{
			APIKey:  cfg.Classifier.APIKey,
			BaseURL: cfg.Classifier.BaseURL,
			Model:   cfg.Classifier.Model,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to initialize classifier", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "classifier enabled", "model", cfg.Classifier.Model)
	} else {
		slog.InfoContext(ctx, "classifier disabled, keyword fallback only")
	}
	classifier := classify.New(remote)

	var searcher search.Client
	if cfg.Search.Enabled() {
		searcher, err = search.New(search.Config{URL: cfg.Search.URL, APIKey: cfg.Search.APIKey})
		if err != nil {
			slog.ErrorContext(ctx, "failed to initialize search", "error", err)
			os.Exit(1)
		}
		if err := searcher.EnsureCollection(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to ensure search collection", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "search enabled", "url", cfg.Search.URL)
	} else {
		slog.InfoContext(ctx, "search disabled, explore uses SQL")
	}

	var graphClient graph.Client
	if cfg.Graph.Enabled() {
		graphClient, err = graph.New(ctx, graph.Config{
			URL:      cfg.Graph.URL,
			Username: cfg.Graph.Username,
			Password: cfg.Graph.Password,
			Database: cfg.Graph.Database,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to arangodb", "error", err)
			os.Exit(1)
		}
		defer graphClient.Close()
		if err := graphClient.EnsureDatabase(ctx); err == nil {
			_ = graphClient.EnsureCollections(ctx)
			_ = graphClient.EnsureGraph(ctx)
		}
		slog.InfoContext(ctx, "connection graph enabled", "database", cfg.Graph.Database)
	} else {
		slog.InfoContext(ctx, "connection graph disabled, activity feed unavailable")
	}

	stores := store.NewStores(database.Pool())

	services := service.NewServices(
		stores,
		service.NewTxRunner(database),
		cfg.WorkOS,
		classifier,
		searcher,
		graphClient,
		eventProducer,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		IsProduction: cfg.IsProduction(),
		AdminAPIKey:  cfg.AdminAPIKey,
	})

	return router
}

const banner = `
███╗   ██╗████████╗██╗  ██╗ ██████╗ ██████╗  █████╗
████╗  ██║╚══██╔══╝██║  ██║██╔═══██╗██╔══██╗██╔══██╗
██╔██╗ ██║   ██║   ███████║██║   ██║██████╔╝███████║
██║╚██╗██║   ██║   ██╔══██║██║   ██║██╔══██╗██╔══██║
██║ ╚████║   ██║   ██║  ██║╚██████╔╝██║  ██║██║  ██║
╚═╝  ╚═══╝   ╚═╝   ╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝
`
