package app

import (
	"context"
	"errors"
	"time"

	"powermon/config"
	"powermon/internals/modules/alert"
	"powermon/internals/modules/checkpoint"
	"powermon/internals/modules/monitor"
	"powermon/internals/modules/observation"
	"powermon/internals/modules/outage"
	"powermon/internals/modules/probe"
	"powermon/internals/modules/report"
	"powermon/internals/modules/scheduler"
	"powermon/pkg/rabbitmq"
	"powermon/pkg/redisstore"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const alertQueueSize = 64

type Container struct {
	// infra
	Cfg         *config.Config
	DB          *pgxpool.Pool
	RedisClient *redisstore.Client  // nil when redis is disabled
	AMQPConn    *amqp091.Connection // nil when rabbitmq is disabled
	Publisher   *rabbitmq.Publisher // nil when rabbitmq is disabled
	Consumer    *rabbitmq.Consumer  // nil when rabbitmq is disabled
	Logger      *zerolog.Logger

	// services
	checkpointSvc *checkpoint.Service
	Tracker       *outage.Tracker
	Orchestrator  *monitor.Orchestrator

	// handlers
	checkpointHandler  *checkpoint.Handler
	observationHandler *observation.Handler
	outageHandler      *outage.Handler
	monitorHandler     *monitor.Handler
	reportHandler      *report.Handler

	// heroes
	Scheduler *scheduler.Scheduler
	Janitor   *scheduler.Janitor
	AlertSvc  *alert.AlertService
}

func NewContainer(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, logger *zerolog.Logger) (*Container, error) {
	c := &Container{
		Cfg:    cfg,
		DB:     db,
		Logger: logger,
	}

	// optional infra; interfaces stay untyped nil when a backend is off
	var (
		statusCache  monitor.StatusCache
		cleaner      checkpoint.StatusCleaner
		statusReader report.StatusReader
		locker       scheduler.Locker
		publisher    alert.Publisher
	)

	if cfg.Redis.URL != "" {
		redisClient, err := redisstore.New(cfg.Redis)
		if err != nil {
			return nil, err
		}
		c.RedisClient = redisClient
		statusCache, cleaner, statusReader, locker = redisClient, redisClient, redisClient, redisClient
		logger.Info().Msg("redis connected")
	} else {
		logger.Warn().Msg("redis disabled, no status cache and no cycle lock")
	}

	if cfg.RabbitMQ.BrokerLink != "" {
		if err := c.connectBroker(logger); err != nil {
			_ = c.Shutdown(context.Background())
			return nil, err
		}
		publisher = c.Publisher
		logger.Info().Msg("rabbitmq connected")
	} else {
		logger.Warn().Msg("rabbitmq disabled, outage events are only logged")
	}

	validator := validator.New()

	prober, err := probe.New(cfg.Monitor)
	if err != nil {
		_ = c.Shutdown(context.Background())
		return nil, err
	}

	checkpointRepo := checkpoint.NewRepository(db, logger)
	observationRepo := observation.NewRepository(db, logger)
	outageRepo := outage.NewRepository(db, logger)

	alertSvc := alert.NewAlertService(alert.DefaultWorkers, make(chan alert.AlertEvent, alertQueueSize), publisher, logger)

	checkpointSvc := checkpoint.NewService(checkpointRepo, cleaner, logger)
	observationSvc := observation.NewService(observationRepo, logger)
	tracker := outage.NewTracker(outageRepo, cfg.Monitor.OutageThreshold, alertSvc, logger)
	// replicas take turns behind the redis cycle lock
	tracker.SetShared(locker != nil)
	outageSvc := outage.NewService(tracker, outageRepo)
	reportSvc := report.NewService(checkpointSvc, observationSvc, outageSvc, statusReader, logger)

	orchestrator := monitor.NewOrchestrator(
		checkpointSvc,
		prober,
		observationRepo,
		tracker,
		statusCache,
		monitor.Options{ProbeTimeout: cfg.Monitor.ProbeTimeout, Workers: cfg.Monitor.Workers},
		logger,
	)

	sch := scheduler.NewScheduler(ctx, cfg.Scheduler, orchestrator, locker, logger)
	janitor := scheduler.NewJanitor(ctx, cfg.Retention, observationSvc, logger)

	c.checkpointSvc = checkpointSvc
	c.Tracker = tracker
	c.Orchestrator = orchestrator

	c.checkpointHandler = checkpoint.NewHandler(checkpointSvc, observationSvc, validator)
	c.observationHandler = observation.NewHandler(observationSvc)
	c.outageHandler = outage.NewHandler(outageSvc)
	c.monitorHandler = monitor.NewHandler(orchestrator, sch)
	c.reportHandler = report.NewHandler(reportSvc)

	c.Scheduler = sch
	c.Janitor = janitor
	c.AlertSvc = alertSvc

	return c, nil
}

func (c *Container) connectBroker(logger *zerolog.Logger) error {
	conn, err := rabbitmq.NewConnection(&c.Cfg.RabbitMQ, logger)
	if err != nil {
		return err
	}
	c.AMQPConn = conn

	if err := rabbitmq.SetupTopology(conn, &c.Cfg.RabbitMQ); err != nil {
		return err
	}

	pub, err := rabbitmq.NewPublisher(conn, c.Cfg.RabbitMQ.ExchangeName)
	if err != nil {
		return err
	}
	c.Publisher = pub

	// a check request is one probe, give it the probe budget plus slack
	msgTimeout := c.Cfg.Monitor.ProbeTimeout + c.Cfg.Monitor.ProbeGrace + 5*time.Second
	consumer, err := rabbitmq.NewConsumer(conn, c.Cfg.RabbitMQ.QueueName, c.Cfg.RabbitMQ.WorkerCount, msgTimeout, logger)
	if err != nil {
		return err
	}
	c.Consumer = consumer

	return nil
}

// SeedCheckpoints upserts the switches listed in the seed file, if one is configured.
func (c *Container) SeedCheckpoints(ctx context.Context) error {
	if c.Cfg.SeedFile == "" {
		return nil
	}

	entries, err := checkpoint.LoadSeedFile(c.Cfg.SeedFile)
	if err != nil {
		return err
	}
	_, err = c.checkpointSvc.Seed(ctx, entries)
	return err
}

// Shutdown releases infra in reverse order of use. The heroes must already be
// stopped through the root context.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	// 1. stop taking check requests
	if c.Consumer != nil {
		if err := c.Consumer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	// 2. flush pending alerts
	if c.AlertSvc != nil {
		c.AlertSvc.Stop()
		c.AlertSvc.WorkerClosingWait()
	}

	// 3. close broker
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.AMQPConn != nil {
		if err := c.AMQPConn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	// 4. close redis
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	// 5. Close DB pool
	if c.DB != nil {
		c.DB.Close()
	}

	return errors.Join(errs...)
}
