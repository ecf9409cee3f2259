package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/guard"
	"github.com/noah-isme/gym-admin-console/internal/handler"
	"github.com/noah-isme/gym-admin-console/internal/middleware"
	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/service"
	"github.com/noah-isme/gym-admin-console/internal/session"
	"github.com/noah-isme/gym-admin-console/pkg/config"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
	"github.com/noah-isme/gym-admin-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/gym-admin-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gym-admin-console/pkg/middleware/requestid"
	"github.com/noah-isme/gym-admin-console/pkg/response"
)

type dependencies struct {
	registry      *session.Registry
	guard         *guard.Guard
	metrics       *service.MetricsService
	checks        map[string]handler.ReadinessCheck
	auth          *service.AuthService
	gyms          *service.GymService
	users         *service.UserService
	wizards       *service.GymWizardService
	dashboard     *service.DashboardService
	notifications *service.NotificationService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, sessionField))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics, deps.registry, "/metrics", "/health", "/ready"))

	metricsHandler := handler.NewMetricsHandler(deps.metrics, deps.checks)
	authHandler := handler.NewAuthHandler(deps.auth)
	gymHandler := handler.NewGymHandler(deps.gyms)
	wizardHandler := handler.NewGymWizardHandler(deps.wizards)
	userHandler := handler.NewUserHandler(deps.users)
	dashboardHandler := handler.NewDashboardHandler(deps.dashboard)
	notificationHandler := handler.NewNotificationHandler(deps.notifications)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireSuperAdmin := middleware.RequireRoles(deps.guard, deps.metrics, models.RoleSuperAdmin)
	requireAdmin := middleware.RequireRoles(deps.guard, deps.metrics, models.RoleAdmin)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(logr, action, resource)
	}

	console := r.Group("/")
	console.Use(middleware.Session(deps.registry, cfg.Session, logr))
	{
		console.POST("/auth/login", authHandler.Login)
		console.POST("/auth/logout", authHandler.Logout)
		console.GET("/auth/me", authHandler.Me)
		console.GET("/unauthorized", handler.Unauthorized)
		console.GET("/notifications", notificationHandler.Drain)

		console.GET("/dashboard", requireAdmin, dashboardHandler.Summary)
		console.GET("/metrics/summary", requireAdmin, metricsHandler.Snapshot)

		gyms := console.Group("/gyms", requireSuperAdmin)
		gyms.GET("", gymHandler.List)
		gyms.GET("/:id", gymHandler.Get)
		gyms.DELETE("/:id", audit("delete", "gym"), gymHandler.Delete)

		gyms.POST("/wizard", wizardHandler.Start)
		gyms.GET("/wizard/:id", wizardHandler.Get)
		gyms.PATCH("/wizard/:id/values", wizardHandler.UpdateValues)
		gyms.POST("/wizard/:id/next", wizardHandler.Next)
		gyms.POST("/wizard/:id/previous", wizardHandler.Previous)
		gyms.POST("/wizard/:id/steps/:index", wizardHandler.GoTo)
		gyms.POST("/wizard/:id/submit", audit("submit", "gym"), wizardHandler.Submit)
		gyms.DELETE("/wizard/:id", wizardHandler.Discard)

		users := console.Group("/users", requireAdmin)
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", audit("create", "user"), userHandler.Create)
		users.POST("/client", audit("create", "client"), userHandler.CreateClient)
		users.PUT("/:id", audit("update", "user"), userHandler.Update)
		users.POST("/assign-role", audit("assign_role", "user"), userHandler.AssignRole)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	return r
}

func sessionField(c *gin.Context) []zap.Field {
	store, ok := middleware.SessionFromContext(c)
	if !ok {
		return nil
	}
	return []zap.Field{zap.String("session_id", store.ID())}
}
