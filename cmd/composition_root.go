package cmd

import (
	"log/slog"

	"orders/api"
	httpin "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/security"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/jobs"
	"orders/internal/pkg/metrics"

	"github.com/benbjohnson/clock"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      clock.Clock
	hasher     *security.BcryptHasher
	tokens     *security.JWTTokens
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, clk clock.Clock, logger *slog.Logger) (CompositionRoot, error) {
	tokens, err := security.NewJWTTokens(config.JWTSecret, config.JWTTTL, clk)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      clk,
		hasher:     security.NewBcryptHasher(config.BcryptCost),
		tokens:     tokens,
		metrics:    metrics.New(),
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateAdvanceOrdersCommandHandler() commands.AdvanceOrdersCommandHandler {
	return commands.NewAdvanceOrdersCommandHandler(c.orderUoWFactory(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	var f commands.UserUoWFactory = FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterUserCommandHandler(f, c.hasher, c.clock)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateAuthenticateUserQueryHandler() queries.AuthenticateUserQueryHandler {
	return queries.NewAuthenticateUserQueryHandler(c.gormDB, c.hasher, c.tokens)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateRegisterUserCommandHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateAuthenticateUserQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRequestValidator() (*httpin.RequestValidator, error) {
	doc, err := api.Load()
	if err != nil {
		return nil, err
	}
	return httpin.NewRequestValidator(doc, c.tokens)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	sweepJob := jobs.NewOrderSweepJob(
		c.CreateAdvanceOrdersCommandHandler(),
		c.config.SweepSchedule,
		c.metrics.Sweep,
		c.clock,
		c.logger,
	)
	return jobs.NewJobManager(sweepJob)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}
