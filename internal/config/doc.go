// Package config provides centralized configuration management for the BCB
// data pipelines. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration
// values throughout both binaries.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BCB_* for namespacing, with
// the section name folded into the variable:
//
//	BCB_HTTP_TIMEOUT=120s
//	BCB_ESTBAN_FROM=2023-01
//	BCB_ESTBAN_TO=2025-09
//	BCB_PUBLISH_ENABLED=false
//	BCB_LOGGING_LEVEL=debug
//
// # Configuration File
//
// The YAML file location is taken from BCB_CONFIG_FILE, else config.yaml
// beside the executable, else config.yaml in the working directory. The
// file is optional; absent sections keep their defaults.
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which lays out the data repository workspace:
//
//	workspace, _ := config.ResolveWorkspace(cfg.Paths.Workspace)
//	paths := config.NewPaths(workspace)
//	fmt.Println(paths.EstbanCSV)
//
// # Validation
//
// All configuration is validated at load time: collection windows must be
// YYYY-MM periods and the HTTP client settings must be workable. Invalid
// values abort the run before any download starts.
//
// # Usage
//
// Load configuration at binary startup:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
