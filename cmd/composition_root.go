package cmd

import (
	"log/slog"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/metrics"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/realtime"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs      Config
	gormDB       *gorm.DB
	uowFactory   *postgres.GormUnitOfWorkFactory
	registry     *realtime.Registry
	promRegistry *prometheus.Registry
	metrics      *metrics.PromSink
	logger       *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sink, err := metrics.NewPromSink(promRegistry)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		configs:      configs,
		gormDB:       gormDB,
		uowFactory:   postgres.NewGormUnitOfWorkFactory(gormDB, logger),
		registry:     realtime.NewRegistry(logger),
		promRegistry: promRegistry,
		metrics:      sink,
		logger:       logger,
	}, nil
}

// Registry returns the connection registry shared by the courier sockets and the dispatch job.
func (c *CompositionRoot) Registry() *realtime.Registry {
	return c.registry
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAssignCouriersCommandHandler() commands.AssignCouriersCommandHandler {
	return commands.NewAssignCouriersCommandHandler(c.orderUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateAnnounceActiveOrdersCommandHandler() commands.AnnounceActiveOrdersCommandHandler {
	return commands.NewAnnounceActiveOrdersCommandHandler(c.orderUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateDispatchJob() *jobs.DispatchJob {
	return jobs.NewDispatchJob(
		c.CreateAssignCouriersCommandHandler(),
		c.CreateAnnounceActiveOrdersCommandHandler(),
		c.metrics,
		jobs.DispatchJobConfig{
			Interval:    c.configs.DispatchInterval,
			TickTimeout: c.configs.DispatchTickTimeout,
		},
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.logger, c.CreateDispatchJob())
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.registry,
		c.promRegistry,
		httpin.DefaultSocketConfig(),
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
