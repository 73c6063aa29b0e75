package dependency

import (
	"context"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ryos-app/ryos-server/infrastructure/cache"
	"github.com/ryos-app/ryos-server/infrastructure/metrics"
	"github.com/ryos-app/ryos-server/infrastructure/persistence/database"
	"github.com/ryos-app/ryos-server/presentation/controllers/aimodels"
	"github.com/ryos-app/ryos-server/presentation/controllers/audit"
	"github.com/ryos-app/ryos-server/presentation/controllers/chat"
	"github.com/ryos-app/ryos-server/presentation/controllers/embed"
	"github.com/ryos-app/ryos-server/presentation/middlewares"
	"github.com/ryos-app/ryos-server/presentation/routes"
	"go.uber.org/zap"
)

func (c *Container) initControllers() {
	c.ChatController = chat.NewChatController(c.RoomUC, c.UserUC, c.MessageUC, c.MetricsManager)
	c.EmbedController = embed.NewEmbedController(c.EmbedUC, c.MetricsManager)
	c.AIModelController = aimodels.NewAIModelController()
	c.AuditController = audit.NewAuditController(c.AuditUC)

	c.Logger.Info("Controllers initialized successfully")
}

func (c *Container) SetupRouter() *gin.Engine {
	switch c.Config.Server.RunMode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	binding.Validator = new(middlewares.DefaultValidator)

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         5 * time.Second,
	}))

	router.Use(middlewares.GinLogger(c.Logger))
	router.Use(middlewares.HTTPMetrics(c.MetricsManager))
	router.Use(middlewares.CorsMiddleware(c.Config))

	router.GET("/health", c.healthCheckHandler)

	c.registerObservabilityRoutes(router)

	c.registerAPIRoutes(router)

	c.Logger.Info("Router configured successfully")

	return router
}

func (c *Container) registerAPIRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		chatGroup := api.Group("")
		chatGroup.Use(middlewares.RateLimiterMiddleware(cache.GetRedis(), c.Logger, middlewares.ModerateRateLimiterConfig()))
		routes.ChatRoutes(chatGroup, c.ChatController)

		embedGroup := api.Group("")
		embedGroup.Use(middlewares.RateLimiterMiddleware(cache.GetRedis(), c.Logger, middlewares.ProxyFetchRateLimiterConfig()))
		routes.EmbedRoutes(embedGroup, c.EmbedController)

		modelsGroup := api.Group("")
		modelsGroup.Use(middlewares.RateLimiterMiddleware(cache.GetRedis(), c.Logger, middlewares.LenientRateLimiterConfig()))
		routes.AIModelRoutes(modelsGroup, c.AIModelController)
	}
}

func (c *Container) healthCheckHandler(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (c *Container) registerObservabilityRoutes(router *gin.Engine) {
	metricsGroup := router.Group("/observability")
	{
		metrics.GetHandler(metricsGroup, c.MetricsManager)
		routes.AuditRoutes(metricsGroup, c.AuditController)
	}
}

func (c *Container) Shutdown() error {
	c.Logger.Info("Shutting down dependencies...")

	if c.TracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.TracerProvider.Shutdown(ctx); err != nil {
			c.Logger.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if c.VerdictCache != nil {
		c.VerdictCache.Close()
	}

	cache.CloseRedis()
	database.CloseDb()

	if err := c.Logger.Log.Sync(); err != nil {
		c.Logger.Error("failed to sync logger", zap.Error(err))
	}

	return nil
}
