package main

import (
	"flag"
	"log/slog"
	"os"

	"bikeshare/internal/app"
	"bikeshare/internal/config"
	"bikeshare/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (defaults to bikeshare.yaml when present)")
	flag.Parse()

	os.Exit(run(*configFile))
}

func run(configFile string) int {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, os.Stderr)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		return 1
	}
	defer logger.Close()

	application, err := app.NewApplication(cfg, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		return 1
	}

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
