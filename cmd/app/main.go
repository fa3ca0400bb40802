package main

import (
	"wisma/config"
	"wisma/di"
	"wisma/shared/logger"
)

// @title Wisma API
// @version 1.0
// @description Guesthouse room booking service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
