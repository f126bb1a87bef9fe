package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/levy1403/quanlychuoi-sub000/internal/config"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/database"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/logger"
)

// Usage: migrate [up|down]
func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var err error
	switch cmd {
	case "up":
		err = database.MigrateUp(cfg.DatabaseURL)
	case "down":
		err = database.MigrateDown(cfg.DatabaseURL)
	default:
		log.Fatal().Str("command", cmd).Msg("Unknown command, expected up or down")
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("Migration failed")
	}
}
