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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-marketplace/internal/audit"
	"github.com/BruksfildServices01/tutor-marketplace/internal/cache"
	"github.com/BruksfildServices01/tutor-marketplace/internal/config"
	dbpkg "github.com/BruksfildServices01/tutor-marketplace/internal/db"
	"github.com/BruksfildServices01/tutor-marketplace/internal/logger"
	"github.com/BruksfildServices01/tutor-marketplace/internal/metrics"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
	"github.com/BruksfildServices01/tutor-marketplace/internal/routes"
	"github.com/BruksfildServices01/tutor-marketplace/internal/storage"
	"github.com/BruksfildServices01/tutor-marketplace/internal/timezone"
)

const shutdownTimeout = 10 * time.Second

func main() {

	cfg := config.Load()

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := dbpkg.NewDB(cfg, zl)
	if err != nil {
		zl.Fatal("database init failed", zap.Error(err))
	}

	if created, err := dbpkg.EnsureAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		zl.Fatal("admin seed failed", zap.Error(err))
	} else if created {
		zl.Info("admin account created", zap.String("email", cfg.AdminEmail))
	}

	loc := timezone.Server(cfg.ServerTimezone)
	zl.Info("server location", zap.String("timezone", loc.String()))

	// ------------------------------
	// Window cache (optional)
	// ------------------------------
	var windowCache cache.WindowCache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisWindowCache(cache.NewRedisClient(cfg.Redis), cfg.Redis.WindowCacheTTL)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			zl.Warn("redis unavailable, window cache disabled", zap.Error(err))
		} else {
			windowCache = rc
		}
		cancel()
	}

	// ------------------------------
	// Notifications
	// ------------------------------
	var publisher notify.Publisher = notify.NewLogPublisher(zl)
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic, zl)
	}
	notifier := notify.NewDispatcher(publisher, zl)

	auditDispatcher := audit.NewDispatcher(audit.New(db), zl)

	r := gin.New()
	r.Use(gin.Recovery())

	if err := routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      zl,
		Location: loc,
		Metrics:  metrics.New(),
		Cache:    windowCache,
		Store:    storage.NewS3Store(cfg.S3),
		Audit:    auditDispatcher,
		Notifier: notifier,
	}); err != nil {
		zl.Fatal("route setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zl.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}

	auditDispatcher.Close()
	if err := notifier.Close(); err != nil {
		zl.Error("notifier close", zap.Error(err))
	}
}
