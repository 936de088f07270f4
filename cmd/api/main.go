package main

import (
	"context"
	"os"

	"github.com/yigit/techfest/internal/pkg/logger"
	"github.com/yigit/techfest/internal/server"
)

// @title Tech Fest Registration API
// @version 1.0
// @description Event catalog and capacity-guarded registration backend for the tech fest
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api
// @schemes http https

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Setup functions log their own details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
