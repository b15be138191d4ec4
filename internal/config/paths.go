package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bikeshare/pkg/contracts/domain"
)

// Paths contains the resolved file system locations used by the application.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string
	LogFile    string
}

// GetPaths resolves the configured directories. Relative paths are taken
// from the current working directory, where the datasets conventionally live.
func GetPaths(cfg *Config) (*Paths, error) {
	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return ResolvePaths(base, cfg), nil
}

// ResolvePaths resolves cfg's directories against base.
func ResolvePaths(base string, cfg *Config) *Paths {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	logFile := resolve(cfg.Logging.FilePath)
	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(cfg.Data.Dir),
		ReportsDir: resolve(cfg.Data.ReportsDir),
		LogsDir:    filepath.Dir(logFile),
		LogFile:    logFile,
	}
}

// EnsureDirectories creates the writable directories if they don't exist.
// The data directory is only read and is not created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the path for a report export named after the criteria.
func (p *Paths) GetReportPath(criteria domain.FilterCriteria, ext string, at time.Time) string {
	name := fmt.Sprintf("%s_%s_%s_%s.%s",
		criteria.City.SourceName(),
		strings.ToLower(criteria.Month.String()),
		strings.ToLower(criteria.Day.String()),
		at.Format("20060102_150405"),
		strings.TrimPrefix(ext, "."),
	)
	return filepath.Join(p.ReportsDir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir),
	)
}
