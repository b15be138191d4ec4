// Package config provides centralized configuration management for the
// bikeshare tools. It loads configuration from multiple sources, validates it
// and resolves the file system locations of datasets, reports and logs.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML file: bikeshare.yaml or configs/bikeshare.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BIKESHARE_<SECTION>_<FIELD>:
//
//	BIKESHARE_SERVER_PORT=8080
//	BIKESHARE_DATA_DIR=/srv/bikeshare/data
//	BIKESHARE_DATA_MAX_CONCURRENT_QUERIES=8
//	BIKESHARE_LOGGING_LEVEL=debug
//	BIKESHARE_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.GetPaths(cfg)
package config
