package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms-engagement-client/internal/catalog"
	"lms-engagement-client/internal/config"
	"lms-engagement-client/internal/database"
	"lms-engagement-client/internal/handlers"
	"lms-engagement-client/internal/lmsapi"
	"lms-engagement-client/internal/logger"
	"lms-engagement-client/internal/middleware"
	"lms-engagement-client/internal/observability"
	"lms-engagement-client/internal/reporter"
	"lms-engagement-client/internal/router"
	"lms-engagement-client/internal/session"
	"lms-engagement-client/internal/status"
	"lms-engagement-client/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("🚀 Starting LMS engagement client...")
	log.Info("✓ Environment variables loaded", "lms_api_url", cfg.LMSAPIURL)

	ctx := context.Background()

	// ──── Step 2: Tracing ────
	shutdownTracing := observability.InitTracing(ctx, log, observability.TracingConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: "lms-engagement-client",
		Environment: cfg.Env,
		Endpoint:    cfg.OtelEndpoint,
		SampleRatio: cfg.OtelSampleRatio,
	})

	// ──── Step 3: Status sinks (Redis optional) ────
	board := status.NewBoard()
	sink := status.Fanout{board}

	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		redisClients, err = database.NewRedisClients(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("✗ Redis connection failed", "error", err)
		}
		defer redisClients.Close()
		sink = append(sink, status.NewRedisPublisher(redisClients.Publish, log))
		log.Info("✓ Redis connected")
	}

	// ──── Step 4: LMS client, session and catalog ────
	lms := lmsapi.New(cfg.LMSAPIURL)
	sessions := session.NewStore(cfg.SessionIDPrefix)
	cat := catalog.New()
	rep := reporter.New(lms, sink, log.With("component", "reporter"),
		reporter.WithSessionPrefix(sessions.Prefix()))
	log.Info("✓ Event reporter ready", "session_prefix", sessions.Prefix())

	// ──── Step 5: WebSocket Hub ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	var wsHub *websocket.Hub
	if redisClients != nil {
		wsHub = websocket.NewHub(redisClients.PubSub, jwtAuth, log)
	} else {
		wsHub = websocket.NewHub(nil, jwtAuth, log)
		board.Subscribe(wsHub.Deliver)
	}
	log.Info("✓ WebSocket hub started")

	// ──── Step 6: Start HTTP Server ────
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute)
	r := router.New(
		jwtAuth,
		authLimiter,
		handlers.NewAuthHandler(lms, sessions, cat, jwtAuth, sink),
		handlers.NewCourseHandler(lms, sessions, cat, sink),
		handlers.NewEventHandler(rep, sessions, cat),
		handlers.NewStatusHandler(board),
		wsHub,
		log,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // event submissions have no deadline of their own
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down...")
		authLimiter.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		shutdownTracing(ctx)
	}()

	log.Info(fmt.Sprintf("✓ LMS engagement client ready on http://localhost:%s", cfg.Port))
	log.Info(fmt.Sprintf("  API: http://localhost:%s/api/v1", cfg.Port))
	log.Info(fmt.Sprintf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("Server error", "error", err)
	}
}
