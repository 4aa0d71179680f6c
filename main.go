package main

import (
	"modutime/core/logger"
	"modutime/core/server"
)

// @title Modutime API
// @version 1.0
// @description Availability aggregation and scheduling API

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
