package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/mcsoccercamp/camp-api/config"
	"github.com/mcsoccercamp/camp-api/domain"
	"github.com/mcsoccercamp/camp-api/internal/log"
)

// Runs the same router behind an API Gateway HTTP API (payload v2).
func main() {
	logger := log.NewLoggerWithJSONOutput()

	appConfig, err := config.LoadApplicationConfiguration(logger, false)
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err.Error())
		os.Exit(1)
	}
	defer appConfig.Cleanup()

	domain.SetupCoreDomain(appConfig)

	adapter := httpadapter.NewV2(log.LambdaRequestID(appConfig.RouterService.GetEngine()))

	logger.Info("Camp API lambda handler ready")
	lambda.Start(adapter.ProxyWithContext)
}
