package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jesseg-dev/portfolio-site/config"
	"github.com/jesseg-dev/portfolio-site/internal/bootstrap"
	"github.com/jesseg-dev/portfolio-site/internal/logging"
	"github.com/jesseg-dev/portfolio-site/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.L().WithError(err).Fatal("load config")
	}

	log := logging.Init(cfg.App.Environment, cfg.App.LogLevel, os.Stdout)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	res, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("open resources")
	}
	defer res.Close()

	if err := res.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	svcs, err := bootstrap.NewServices(cfg, res.DB, res.Redis)
	if err != nil {
		log.WithError(err).Fatal("build services")
	}

	// the memory store starts empty on every boot, so it is always seeded
	if cfg.Admin.SeedOnStart || cfg.Database.Store == config.StoreMemory {
		fixtures, err := seed.Load(cfg.Admin.SeedFile)
		if err != nil {
			log.WithError(err).Fatal("load seed file")
		}
		if _, err := svcs.Seeder.Run(ctx, bootstrap.SeedAdmin(cfg), fixtures); err != nil {
			log.WithError(err).Fatal("seed")
		}
	}

	dbPing, redisPing := res.Pingers()
	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:   cfg,
		Services: svcs,
		DB:       dbPing,
		Redis:    redisPing,
	})
	if err != nil {
		log.WithError(err).Fatal("build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.RequestTimeout + 5*time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).WithField("store", cfg.Database.Store).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	log.Info("server stopped")
}
