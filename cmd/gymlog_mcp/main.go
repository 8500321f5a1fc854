// Package main runs the gymlog MCP server over stdio (for local MCP clients).
// The same tools are also mounted on the main backend at /mcp over HTTP, scoped to the
// logged in user; here the user is picked with -user.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/gymlog/internal/auth"
	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/db"
	"github.com/2beens/gymlog/internal/gymlog/catalog"
	"github.com/2beens/gymlog/internal/gymlog/ledger"
	gymlogmcp "github.com/2beens/gymlog/internal/gymlog/mcp"
	"github.com/2beens/gymlog/internal/gymlog/plans"
	"github.com/2beens/gymlog/internal/logging"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	envFile := flag.String("envfile", ".env", "optional .env file with secrets")
	username := flag.String("user", "", "gymlog username whose data the tools expose")
	flag.Parse()

	if *username == "" {
		log.Fatalln("-user is required")
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("load env file: %s", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	// stdout belongs to the MCP transport
	logging.Setup(logging.LoggerSetupParams{
		LogFileName: cfg.LogsPath,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})
	if cfg.LogsPath == "" {
		log.SetOutput(os.Stderr)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     os.Getenv("POSTGRES_PASSWORD"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	user, err := auth.NewUsersRepo(dbPool).GetByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("get user [%s]: %s", *username, err)
	}

	catalogService := catalog.NewService(catalog.NewRepo(dbPool), nil, 0)
	contextService := gymlogmcp.NewContextService(
		gymlogmcp.NewPoolSchemaRepo(dbPool),
		catalogService,
		ledger.NewService(ledger.NewRepo(dbPool), catalogService),
		plans.NewService(plans.NewRepo(dbPool)),
	)

	server := gymlogmcp.NewServer(contextService, user.ID)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
