package main

import (
	"os"

	"github.com/avolkov/lms-backend/internal/pkg/logger"
	"github.com/avolkov/lms-backend/internal/server"
)

// @title LMS API
// @version 1.0
// @description REST API for the learning-management backend: sections, materials, tests and section payments

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token issued by /auth/login

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
