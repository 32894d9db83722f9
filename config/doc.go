// Package config provides application configuration management.
//
// The config package handles loading and validation of the application's
// configuration from YAML files. It covers server transport settings,
// logging, sandbox resource limits, and per-language image and environment
// overrides. Configuration is loaded once at startup into an immutable
// structure that is passed to the components that need it.
//
// Usage:
//
//	cfg, err := config.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Server transport: %s\n", cfg.Server.Transport)
package config
