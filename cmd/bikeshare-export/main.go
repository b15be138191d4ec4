package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bikeshare/internal/config"
	"bikeshare/internal/dataprocessing"
	"bikeshare/internal/exporter"
	"bikeshare/internal/files"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/services"
	"bikeshare/internal/validation"
)

// options are the parsed command line flags.
type options struct {
	configFile string
	dataDir    string
	city       string
	month      string
	day        string
	format     string
	out        string
	trips      bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("bikeshare-export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to bikeshare.yaml when present)")
	fs.StringVar(&opts.dataDir, "data", "", "directory holding the city datasets (overrides the config)")
	fs.StringVar(&opts.city, "city", "", "city to analyze: chicago, new york city or washington")
	fs.StringVar(&opts.month, "month", "all", "month from January to June, or all")
	fs.StringVar(&opts.day, "day", "all", "day of the week, or all")
	fs.StringVar(&opts.format, "format", "csv", "output format: csv, xlsx, pdf or json")
	fs.StringVar(&opts.out, "out", "", "output file (defaults to a timestamped file in the reports directory)")
	fs.BoolVar(&opts.trips, "trips", false, "include the filtered trips after the summary")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.city == "" {
		return opts, errors.New("--city is required")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("Invalid arguments", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := run(ctx, opts, os.Stderr, time.Now())
	if err != nil {
		slog.Error("Export failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(path)
}

// run loads, analyzes and exports one filter combination and returns the
// written file's path.
func run(ctx context.Context, opts options, logOutput io.Writer, now time.Time) (string, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.dataDir != "" {
		cfg.Data.Dir = opts.dataDir
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return "", fmt.Errorf("failed to create required directories: %w", err)
	}
	cfg.Logging.FilePath = paths.LogFile

	logger, err := infrastructure.NewLogger(cfg.Logging, logOutput)
	if err != nil {
		return "", fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		return "", err
	}
	criteria, err := validation.NewCriteriaValidator().ValidateValues(opts.city, opts.month, opts.day)
	if err != nil {
		return "", err
	}

	out := opts.out
	if out == "" {
		out = paths.GetReportPath(criteria, string(format), now)
	}
	if err := validation.NewFileValidator(logger.Logger).ValidateOutputFile(out, string(format)); err != nil {
		return "", err
	}

	loader := dataprocessing.NewLoader(dataprocessing.NewFileResolver(paths.DataDir), logger.Logger)
	service := services.NewAnalysisService(loader, services.NewPipelineTracer(nil, nil),
		services.AnalysisOptionsFrom(cfg.Data), logger.Logger)

	cycle, err := service.Query(ctx, criteria)
	if err != nil {
		return "", err
	}
	report, err := cycle.Report()
	if err != nil {
		return "", err
	}

	doc := exporter.Document{Report: report}
	if opts.trips {
		doc.Trips = cycle.Rows()
	}

	written, err := files.NewManager(paths, logger.Logger).WriteFile(out, func(w io.Writer) error {
		return exporter.Export(w, format, doc)
	})
	if err != nil {
		return "", err
	}

	logger.InfoContext(ctx, "Report exported",
		slog.String("criteria", criteria.String()),
		slog.String("format", string(format)),
		slog.Int("trips", report.TripCount),
		slog.String("path", written))
	return written, nil
}
