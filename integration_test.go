package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/execpad/execpad/config"
	"github.com/execpad/execpad/logger"
	"github.com/execpad/execpad/mcpserver"
	"github.com/execpad/execpad/sandbox"
)

func integrationConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Transport: "stdio",
			HTTPPort:  8080,
		},
		Logging: config.LoggingConfig{
			Mode:  "development",
			Level: "debug",
		},
		Sandbox: config.SandboxConfig{
			Runtime:      "docker",
			WorkspaceDir: t.TempDir(),
			CPUTimeSec:   10,
			MemoryMB:     512,
			WallTimeSec:  30,
			MaxOutputKB:  10240,
		},
		Languages: map[string]config.Language{
			"python": {
				Image:       "python:3.11-slim",
				Environment: map[string]string{"PYTHONDONTWRITEBYTECODE": "1"},
			},
		},
	}
}

// TestIntegrationConfigLoggerSandbox tests the integration between config, logger, and sandbox packages
func TestIntegrationConfigLoggerSandbox(t *testing.T) {
	t.Run("ConfigAndLoggerIntegration", func(t *testing.T) {
		cfg := integrationConfig(t)

		// Create logger using config
		testLogger, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
		require.NoError(t, err)
		require.NotNil(t, testLogger)

		// Test that logger works
		testLogger.Info("Integration test started")
		_ = testLogger.Sync()
	})

	t.Run("ConfigLoggerRegistryIntegration", func(t *testing.T) {
		cfg := integrationConfig(t)

		testLogger, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
		require.NoError(t, err)

		// Build the sandbox registry using config and logger
		registry, err := sandbox.NewRegistry(testLogger, cfg)
		require.NoError(t, err)
		require.NotNil(t, registry)

		// Every supported language resolves
		for _, lang := range registry.Languages() {
			executor, resolveErr := registry.Resolve(lang)
			require.NoError(t, resolveErr)
			assert.NotNil(t, executor)
		}

		// Config overrides survive the wiring
		assert.Equal(t, "python:3.11-slim", registry.Images()[sandbox.LanguagePython])
	})

	t.Run("FullMCPIntegration", func(t *testing.T) {
		cfg := integrationConfig(t)

		mcpLogger, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
		require.NoError(t, err)

		registry, err := sandbox.NewRegistry(mcpLogger, cfg)
		require.NoError(t, err)

		// Create MCP server
		server, err := mcpserver.New(cfg, mcpLogger, registry)
		require.NoError(t, err)
		require.NotNil(t, server)

		// Test that tools are registered
		mcpServer := server.GetMCPServer()
		require.NotNil(t, mcpServer)
		// Note: We can't easily verify tool registration without mcp library internals
	})
}

// TestIntegrationSandboxExecution drives an execution end to end against a
// stubbed container runtime
func TestIntegrationSandboxExecution(t *testing.T) {
	testLogger := zaptest.NewLogger(t)

	t.Run("ExecuteThroughRegistry", func(t *testing.T) {
		cfg := integrationConfig(t)

		registry, err := sandbox.NewRegistryWith(testLogger, cfg,
			sandbox.WithCommandRunner(echoRunner{}))
		require.NoError(t, err)

		executor, err := registry.Resolve(sandbox.LanguagePHP)
		require.NoError(t, err)

		result, err := executor.Execute(context.Background(), sandbox.ExecuteRequest{
			Code:  `<?php echo "hi";`,
			Stdin: "hi",
		})
		require.NoError(t, err)
		assert.Equal(t, "hi", result.Stdout)
		assert.Equal(t, "", result.Stderr)
	})
}

// echoRunner stands in for the container runtime, echoing stdin as the
// program output
type echoRunner struct{}

func (echoRunner) Run(_ context.Context, _ []string, stdin string) (sandbox.CommandResult, error) {
	return sandbox.CommandResult{Stdout: stdin, ExitCode: 0}, nil
}
