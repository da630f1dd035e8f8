package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/algoaura/dashboard-backend/pkg/config"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

const serviceName = "dashboard-migrate"

func main() {
	printOnly := flag.Bool("print", false, "print the schema instead of applying it")
	timeout := flag.Duration("timeout", 60*time.Second, "time allowed for applying the schema")
	flag.Parse()

	if *printOnly {
		fmt.Print(database.Schema())
		return
	}

	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Server.Environment)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}
}
