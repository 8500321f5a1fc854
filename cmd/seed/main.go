// Package main loads the default exercise catalog into the gymlog database.
// Exercises that already exist (by name) are left untouched, so it is safe to rerun.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/db"
	"github.com/2beens/gymlog/internal/gymlog/catalog"
	"github.com/2beens/gymlog/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	envFile := flag.String("envfile", ".env", "optional .env file with secrets")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("load env file: %s", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool); err != nil {
		log.Fatalf("migrate: %s", err)
	}

	service := catalog.NewService(catalog.NewRepo(dbPool), nil, 0)
	created, skipped, err := service.Seed(ctx, catalog.DefaultExercises)
	if err != nil {
		log.Fatalf("seed exercises: %s", err)
	}

	log.Infof("exercise catalog seeded: %d created, %d already present", created, skipped)
}
