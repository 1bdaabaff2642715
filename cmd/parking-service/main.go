package main

import (
	"fmt"
	"os"

	"parking-service/internal/auth"
	"parking-service/internal/config"
	"parking-service/internal/db"
	httphandler "parking-service/internal/http"
	"parking-service/internal/http/middleware"
	"parking-service/internal/logger"
	"parking-service/internal/repository"
	"parking-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ticketRepo := repository.NewTicketRepository(database)
	brandRepo := repository.NewBrandRepository(database)
	clientRepo := repository.NewClientRepository(database)

	ticketService := service.NewTicketService(ticketRepo, brandRepo, clientRepo)

	var tokenParser *auth.Parser
	if cfg.Auth.AccessSecret != "" {
		tokenParser = auth.NewParser(cfg.Auth.AccessSecret)
	} else {
		log.Warn().Msg("JWT_ACCESS_SECRET not set, token gate disabled")
	}

	handler := httphandler.NewHandler(ticketService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), db.HealthCheck(database), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting parking service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
