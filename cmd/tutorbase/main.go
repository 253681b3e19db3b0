package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tutorbase/tutorbase/internal/auth"
	"github.com/tutorbase/tutorbase/internal/clock"
	"github.com/tutorbase/tutorbase/internal/config"
	dbRedis "github.com/tutorbase/tutorbase/internal/db/redis"
	domcredit "github.com/tutorbase/tutorbase/internal/domain/credit"
	logpkg "github.com/tutorbase/tutorbase/internal/logger"
	"github.com/tutorbase/tutorbase/internal/metrics"
	creditrepo "github.com/tutorbase/tutorbase/internal/repository/credit"
	sessionrepo "github.com/tutorbase/tutorbase/internal/repository/session"
	uploadrepo "github.com/tutorbase/tutorbase/internal/repository/upload"
	userrepo "github.com/tutorbase/tutorbase/internal/repository/user"
	chiTransport "github.com/tutorbase/tutorbase/internal/transport/chi"
	"github.com/tutorbase/tutorbase/internal/transport/deepseek"
	adminuc "github.com/tutorbase/tutorbase/internal/usecase/admin"
	authuc "github.com/tutorbase/tutorbase/internal/usecase/auth"
	credituc "github.com/tutorbase/tutorbase/internal/usecase/credit"
	tutoruc "github.com/tutorbase/tutorbase/internal/usecase/tutor"
	uploaduc "github.com/tutorbase/tutorbase/internal/usecase/upload"
	"github.com/tutorbase/tutorbase/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tutorbase API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register credit metrics explicitly (no init())
	metrics.RegisterCreditMetrics()

	clk := clock.System{}

	// Create repositories (domain-native, no adapters)
	creditRepo := creditrepo.New(store)
	userRepo := userrepo.New(store)
	sessionRepo := sessionrepo.New(store)
	uploadRepo := uploadrepo.New(store)

	policy, err := domcredit.NewPolicy(cfg.Credits.DailyLimit, cfg.Credits.TokensPerCredit)
	if err != nil {
		logger.Fatal("Invalid credit policy", zap.Error(err))
	}
	gate := credituc.NewGate(creditRepo, policy, clk)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, clk)
	if err != nil {
		logger.Fatal("Invalid token configuration", zap.Error(err))
	}

	completer := deepseek.NewClient(&deepseek.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Logger:      logger,
	})
	logger.Info("Completion client created",
		zap.String("base_url", cfg.LLM.BaseURL),
		zap.String("model", cfg.LLM.Model),
	)

	// Create use case services
	authSvc := authuc.New(userRepo, gate, tokens, clk)
	tutorSvc := tutoruc.New(userRepo, sessionRepo, gate, completer, clk, cfg.Credits.EstimatedTokens)
	adminSvc := adminuc.New(userRepo, creditRepo, creditRepo, sessionRepo, uploadRepo, clk)
	uploadSvc := uploaduc.New(
		uploadRepo,
		uploaduc.NewChunker(cfg.Uploads.ChunkSize, cfg.Uploads.ChunkOverlap),
		cfg.Uploads.MaxFileBytes,
		clk,
	)

	// Create chi server
	server := chiTransport.NewServer(
		authSvc, tutorSvc, adminSvc, uploadSvc, gate, store, logger, cfg.Uploads.MaxFileBytes,
	)
	authn := chiTransport.NewAuthenticator(tokens, userRepo)
	loginLimit := chiTransport.RateLimitMiddleware(rate.Limit(cfg.Auth.LoginRate), cfg.Auth.LoginBurst)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes(authn, loginLimit))

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

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
