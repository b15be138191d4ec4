package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bikeshare/internal/config"
	"bikeshare/internal/console"
	"bikeshare/internal/dataprocessing"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/services"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (defaults to bikeshare.yaml when present)")
	dataDir := flag.String("data", "", "directory holding the city datasets (overrides the config)")
	verbose := flag.Bool("verbose", false, "also write log lines to stderr")
	flag.Parse()

	os.Exit(run(*configFile, *dataDir, *verbose, os.Stdin, os.Stdout))
}

// run returns the process exit code so deferred cleanup, the log file
// included, happens before exiting.
func run(configFile, dataDir string, verbose bool, in io.Reader, out io.Writer) int {
	cfg, err := loadConfig(configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		return 1
	}
	cfg.Logging.FilePath = paths.LogFile

	// Log lines would interleave with the prompts, so stderr is opt-in.
	var logConsole io.Writer = io.Discard
	if verbose {
		logConsole = os.Stderr
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging, logConsole)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		return 1
	}
	defer logger.Close()

	loader := dataprocessing.NewLoader(dataprocessing.NewFileResolver(paths.DataDir), logger.Logger)
	service := services.NewAnalysisService(loader, services.NewPipelineTracer(nil, nil),
		services.AnalysisOptionsFrom(cfg.Data), logger.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "Console session started", slog.String("data_dir", paths.DataDir))
	if err := console.New(in, out, service, config.ConsolePageSize, logger.Logger).Run(ctx); err != nil {
		if ctx.Err() != nil {
			return 0
		}
		logger.Error("Console session failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
