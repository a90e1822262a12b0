package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"powermon/config"
	"powermon/internals/app"
	"powermon/internals/server"
	"powermon/pkg/db"
	"powermon/pkg/logger"
	"powermon/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "env.yaml", "path to the YAML config file")
	flag.Parse()

	// Load envs
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Get Context with signals attached -> when ever a signal occurs , then `Done` channel of ctx will get closed
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Base/global logger
	log := logger.Init(cfg)
	log.Info().Msg("logger initialized")

	// Initialize DB Pool
	dbPool, err := db.ConnectToDB(ctx, &cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize db pool")
	}
	log.Info().Msg("database pool initialized")
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}
	metrics.Init(dbPool)

	// Inject Dependencies
	container, err := app.NewContainer(ctx, dbPool, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	log.Info().Msg("dependencies initialized")

	if err := container.SeedCheckpoints(ctx); err != nil {
		log.Fatal().Err(err).Str("seed_file", cfg.SeedFile).Msg("failed to seed checkpoints")
	}
	// pick up an outage left open by the previous process before the first cycle
	if err := container.Tracker.Restore(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to restore outage state")
	}

	// start our heroes
	var heroes sync.WaitGroup
	heroes.Add(2)
	// start janitor
	go func() {
		defer heroes.Done()
		container.Janitor.Run()
	}()
	// start scheduler
	go func() {
		defer heroes.Done()
		container.Scheduler.Run()
	}()
	// start alert service
	container.AlertSvc.Start()
	// start check request consumer
	app.StartConsumer(ctx, container)

	// all heroes are initialized
	log.Info().Msg("all heroes initialized")

	// Register Routes
	router := app.RegisterRoutes(container)
	log.Info().Msg("routes registered")

	// Start HTTP Server -> Runs in a seperate goroutines in background and receive requests
	srv := server.New(fmt.Sprintf(":%d", cfg.Port), router, app.WriteTimeout(), log)
	srv.Start()

	// main goroutine is for gracefull shutdown

	<-ctx.Done() // WAIT FOR SIGNAL (waiting for closure of Done channel, when it closes, it run forward from here)
	log.Info().Msg("shutdown signal received")

	// 1. Stop HTTP server (stop accepting requests)
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// 2. Shutdown background workers & infra
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second) // this is new context, acts as buffer time to close all resources
	defer cancel()

	heroes.Wait() // scheduler and janitor exit on ctx cancel

	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("dependecies shutdown failed")
	}

	// Shutdown done
	log.Info().Msg("graceful shutdown complete")
}
