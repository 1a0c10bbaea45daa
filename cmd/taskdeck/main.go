package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskdeck/internal/config"
	"taskdeck/internal/db"
	"taskdeck/internal/server"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.Info("starting taskdeck")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	configureLogger(log, cfg.Log)

	database, err := db.New(cfg.Mongo, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to store")
	}

	srv := server.New(cfg, database, log)

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		s := <-signals
		log.WithField("signal", s.String()).Info("shutdown signal received")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		log.WithError(err).Error("server error")
	}

	if err := database.Close(context.Background()); err != nil {
		log.WithError(err).Error("error closing store")
		os.Exit(1)
	}

	log.Info("shutdown complete")
}

func configureLogger(log *logrus.Logger, cfg config.Log) {
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(level)
	}
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}
