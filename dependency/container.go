package dependency

import (
	"fmt"

	auditUseCase "github.com/ryos-app/ryos-server/application/usecases/audit"
	embedUseCase "github.com/ryos-app/ryos-server/application/usecases/embed"
	messageUseCase "github.com/ryos-app/ryos-server/application/usecases/message"
	roomUseCase "github.com/ryos-app/ryos-server/application/usecases/room"
	userUseCase "github.com/ryos-app/ryos-server/application/usecases/user"
	"github.com/ryos-app/ryos-server/domain/repository"
	"github.com/ryos-app/ryos-server/infrastructure/cache"
	"github.com/ryos-app/ryos-server/infrastructure/config"
	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"github.com/ryos-app/ryos-server/infrastructure/metrics"
	"github.com/ryos-app/ryos-server/presentation/controllers/aimodels"
	"github.com/ryos-app/ryos-server/presentation/controllers/audit"
	"github.com/ryos-app/ryos-server/presentation/controllers/chat"
	"github.com/ryos-app/ryos-server/presentation/controllers/embed"
	"go.opentelemetry.io/otel/sdk/trace"
)

type Container struct {
	Config *config.Config
	Logger *logger.Logger

	TracerProvider *trace.TracerProvider
	MetricsManager metrics.Manager

	VerdictCache *cache.Local

	RoomRepo    repository.RoomRepository
	UserRepo    repository.UserRepository
	MessageRepo repository.MessageRepository
	AuditRepo   repository.AuditLogRepository

	RoomUC    roomUseCase.RoomUseCase
	UserUC    userUseCase.UserUseCase
	MessageUC messageUseCase.MessageUseCase
	AuditUC   auditUseCase.AuditUseCase
	EmbedUC   embedUseCase.EmbedUseCase

	ChatController    chat.ChatController
	EmbedController   embed.EmbedController
	AIModelController aimodels.AIModelController
	AuditController   audit.AuditController
}

func NewContainer() (*Container, error) {
	c := &Container{}

	c.Config = config.GetConfig()

	loggerInstance, err := newLogger(c.Config)
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	c.Logger = loggerInstance

	c.Logger.Info("Initializing ryOS server dependencies")

	if err := cache.InitRedis(c.Config); err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("error initializing infrastructure: %w", err)
	}

	c.initRepositories()

	c.initUseCases()

	c.initControllers()

	c.Logger.Info("All dependencies initialized successfully")

	return c, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	if cfg.IsProduction() {
		return logger.NewProductionLogger(cfg.Logger.Level, cfg.Logger.Encoding)
	}
	return logger.NewDevelopmentLogger()
}
