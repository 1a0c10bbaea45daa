// Command migrate creates the Mongo indexes the task queries depend
// on. Run it once per environment; reruns are no-ops.
package main

import (
	"context"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/db"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	database, err := db.New(cfg.Mongo, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to store")
	}
	defer database.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	log.Info("indexes created successfully")
}
