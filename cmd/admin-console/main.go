package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gym-admin-console/api/swagger"
	"github.com/noah-isme/gym-admin-console/internal/client"
	"github.com/noah-isme/gym-admin-console/internal/guard"
	"github.com/noah-isme/gym-admin-console/internal/service"
	"github.com/noah-isme/gym-admin-console/internal/session"
	"github.com/noah-isme/gym-admin-console/pkg/config"
	"github.com/noah-isme/gym-admin-console/pkg/logger"
)

// @title Gym Admin Console
// @version 1.0.0
// @description Session-holding admin console in front of the gym management backend
// @BasePath /
// @schemes http

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backing, err := openStorage(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open session storage", zap.String("driver", cfg.Session.Driver), zap.Error(err))
	}
	defer backing.close()

	deps := wire(cfg, logr, backing)

	go deps.registry.Run(ctx, cfg.Session.SweepInterval, cfg.Session.MaxIdle)
	if backing.purge != nil {
		go backing.purge(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, logr, deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "session_driver", cfg.Session.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// wire builds the services and handlers on top of the opened storage.
func wire(cfg *config.Config, logr *zap.Logger, backing *storage) dependencies {
	validate := validator.New()
	metrics := service.NewMetricsService()
	notifications := service.NewNotificationService()

	registry := session.NewRegistry(backing.sessions, session.Slots{
		User:  cfg.Session.UserSlot,
		Token: cfg.Session.TokenSlot,
	}, logr)

	backend := client.New(cfg.Backend, logr, client.WithUnauthorizedHandler(func(ctx context.Context, sess client.Session) {
		store, ok := sess.(*session.Store)
		if !ok {
			return
		}
		if err := store.Invalidate(ctx); err != nil {
			logr.Warn("failed to clear rejected session", zap.String("session_id", store.ID()), zap.Error(err))
		}
	}))

	gyms := service.NewGymService(backend, validate, metrics, logr)
	users := service.NewUserService(backend, validate, metrics, logr)
	wizards := service.NewGymWizardService(backing.wizards, gyms, validate, metrics, logr, cfg.Wizard.TTL)

	watcher := service.NewSessionWatcher(wizards, notifications, metrics, logr)
	registry.OnCreate(watcher.Watch)

	return dependencies{
		registry:      registry,
		guard:         guard.New(guard.Routes{Login: cfg.Routes.Login, Unauthorized: cfg.Routes.Unauthorized}),
		metrics:       metrics,
		checks:        backing.checks,
		auth:          service.NewAuthService(backend, validate, logr, cfg.Backend.LoginPath),
		gyms:          gyms,
		users:         users,
		wizards:       wizards,
		dashboard:     service.NewDashboardService(gyms, users, logr),
		notifications: notifications,
	}
}
