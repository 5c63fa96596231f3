package main

import (
	"database/sql"
	"flag"
	"os"

	"github.com/dafibh/tally/tally-backend/internal/config"
	"github.com/dafibh/tally/tally-backend/internal/repository/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	command := flag.String("command", "up", "goose command: up, down, status, version")
	flag.Parse()

	databaseURL := config.DatabaseURL()
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	goose.SetBaseFS(postgres.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("Failed to set migration dialect")
	}

	log.Info().Str("command", *command).Msg("Running migrations")
	if err := goose.Run(*command, db, postgres.MigrationsDir, flag.Args()...); err != nil {
		log.Fatal().Err(err).Msg("Migrations failed")
	}
	log.Info().Msg("Migrations complete")
}
