package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mcsoccercamp/camp-api/config"
	"github.com/mcsoccercamp/camp-api/domain"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
)

type options struct {
	autoMigrate bool
}

func parseArgs(args []string) options {
	var opts options
	for _, arg := range args {
		switch strings.ToLower(strings.TrimSpace(arg)) {
		case "--auto-migrate", "-m":
			opts.autoMigrate = true
		}
	}
	return opts
}

func main() {
	logger := log.NewLoggerWithJSONOutput()
	opts := parseArgs(os.Args[1:])

	logger.Info("Camp API server starting", "auto_migrate", opts.autoMigrate)

	appConfig, err := config.LoadApplicationConfiguration(logger, opts.autoMigrate)
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err.Error())
		os.Exit(1)
	}

	domain.SetupCoreDomain(appConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- appConfig.RouterService.RunHTTPServer()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server stopped", "error", err)
			appConfig.Cleanup()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")

		timeout := utils.GetEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := appConfig.RouterService.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
	}

	appConfig.Cleanup()
	logger.Info("Camp API server stopped")
}
