package dependency

import (
	"fmt"
	"time"

	auditUseCase "github.com/ryos-app/ryos-server/application/usecases/audit"
	embedUseCase "github.com/ryos-app/ryos-server/application/usecases/embed"
	messageUseCase "github.com/ryos-app/ryos-server/application/usecases/message"
	roomUseCase "github.com/ryos-app/ryos-server/application/usecases/room"
	userUseCase "github.com/ryos-app/ryos-server/application/usecases/user"
	"github.com/ryos-app/ryos-server/infrastructure/cache"
	"github.com/ryos-app/ryos-server/infrastructure/metrics"
	"github.com/ryos-app/ryos-server/infrastructure/metrics/exporters"
	"github.com/ryos-app/ryos-server/infrastructure/persistence/database"
	"github.com/ryos-app/ryos-server/infrastructure/persistence/repository"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func (c *Container) initInfrastructure() error {
	tracerProvider, err := exporters.InitJaegerExporter(c.Config)
	if err != nil {
		c.Logger.Error("failed to initialize Jaeger exporter", zap.Error(err))
		c.Logger.Warn("Using noop tracer provider as fallback")
	} else {
		c.TracerProvider = tracerProvider
		c.Logger.Info("Jaeger exporter initialized successfully",
			zap.String("endpoint", c.Config.Jaeger.Endpoint),
			zap.String("service", c.Config.Jaeger.ServiceName),
		)
	}

	meter := exporters.Prometheus(c.Config.Jaeger.ServiceName, c.Config.Jaeger.ServiceVersion)
	if meter == nil {
		return fmt.Errorf("failed to initialize Prometheus exporter")
	}

	c.MetricsManager = metrics.NewMetricsManager(meter, c.Logger)

	c.MetricsManager.NewGauge("app_go_routines", "Number of goroutines")
	c.MetricsManager.NewGauge("app_sys_memory_alloc", "Bytes allocated and in use")
	c.MetricsManager.NewGauge("app_sys_total_alloc", "Total bytes allocated")
	c.MetricsManager.NewGauge("app_go_numGC", "Number of completed GC cycles")
	c.MetricsManager.NewGauge("app_go_sys", "Total bytes of memory obtained from OS")

	c.Logger.Info("Metrics initialized successfully")

	c.VerdictCache = cache.NewLocal(cache.Options{
		CleanupInterval: 5 * time.Minute,
		MaxItems:        c.Config.Proxy.VerdictCacheItems,
	})

	if c.Config.AuditEnabled() {
		if err := database.InitDb(c.Config); err != nil {
			return fmt.Errorf("error initializing postgres: %w", err)
		}
		c.Logger.Info("Audit log database initialized successfully")
	} else {
		c.Logger.Warn("Audit log disabled, no postgres host configured")
	}

	return nil
}

func (c *Container) initRepositories() {
	tracer := otel.Tracer("ryos-server/persistence")

	redisClient := cache.GetRedis()

	c.RoomRepo = repository.NewRoomRepository(redisClient, tracer)
	c.UserRepo = repository.NewUserRepository(redisClient, tracer)
	c.MessageRepo = repository.NewMessageRepository(redisClient, tracer)

	if c.Config.AuditEnabled() {
		c.AuditRepo = repository.NewAuditLogRepository(database.GetDb())
	}

	c.Logger.Info("Repositories initialized successfully")
}

func (c *Container) initUseCases() {
	c.AuditUC = auditUseCase.NewAuditUseCase(c.AuditRepo, c.Logger)
	c.UserUC = userUseCase.NewUserUseCase(c.UserRepo, c.Logger)
	c.RoomUC = roomUseCase.NewRoomUseCase(c.RoomRepo, c.UserRepo, c.MessageRepo, c.AuditUC, c.Logger)
	c.MessageUC = messageUseCase.NewMessageUseCase(c.MessageRepo, c.RoomRepo, c.UserRepo, c.Logger)
	c.EmbedUC = embedUseCase.NewEmbedUseCase(&c.Config.Proxy, c.VerdictCache, c.Logger)

	c.Logger.Info("Use cases initialized successfully")
}
