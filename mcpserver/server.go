// Package mcpserver provides the Model Context Protocol (MCP) server implementation.
//
// The mcpserver package implements an MCP-compliant server that exposes tools
// for code execution. It uses the mark3labs/mcp-go library to handle the
// protocol details and provides the execute_code tool as the primary
// interface for sandboxed code execution.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/execpad/execpad/config"
	"github.com/execpad/execpad/sandbox"
)

// MCPServer represents the MCP server
type MCPServer struct {
	config    *config.Config
	logger    *zap.Logger
	registry  *sandbox.Registry
	mcpServer *server.MCPServer
}

// New creates a new MCPServer
func New(cfg *config.Config, logger *zap.Logger, registry *sandbox.Registry) (*MCPServer, error) {
	s := &MCPServer{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}

	// Log configuration parameters on startup
	logger.Info("configuration loaded",
		zap.String("server.transport", s.config.Server.Transport),
		zap.Int("server.http_port", s.config.Server.HTTPPort),
		zap.String("sandbox.runtime", s.config.Sandbox.Runtime),
		zap.Int("sandbox.cpu_time_sec", s.config.Sandbox.CPUTimeSec),
		zap.Int("sandbox.memory_mb", s.config.Sandbox.MemoryMB),
		zap.Int("sandbox.wall_time_sec", s.config.Sandbox.WallTimeSec),
		zap.Int("sandbox.max_output_kb", s.config.Sandbox.MaxOutputKB),
		zap.Any("languages", s.config.Languages),
	)

	// Create the MCP server
	s.mcpServer = server.NewMCPServer("execpad", "A sandboxed code execution server")

	// Register the execute_code tool
	s.registerExecuteCodeTool()

	return s, nil
}

// supportedLanguageNames returns the language identifiers for the tool schema
func supportedLanguageNames() []string {
	langs := sandbox.SupportedLanguages()
	names := make([]string, len(langs))
	for i, lang := range langs {
		names[i] = string(lang)
	}
	return names
}

// registerExecuteCodeTool registers the execute_code tool
func (s *MCPServer) registerExecuteCodeTool() {
	tool := mcp.Tool{
		Name:        "execute_code",
		Description: "Execute untrusted code in a sandboxed environment and return its output",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "User-provided source code",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Runtime language",
					"enum":        supportedLanguageNames(),
				},
				"stdin": map[string]any{
					"type":        "string",
					"description": "Standard input fed to the program (optional)",
				},
			},
			Required: []string{"code", "language"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleExecuteCode)
}

// handleExecuteCode handles the execute_code tool
func (s *MCPServer) handleExecuteCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.Info("code execution requested")

	// Extract parameters
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}

	languageName, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("language parameter is required: %w", err)
	}

	// Validate language before dispatch; the sandbox treats unknown
	// languages as a caller bug.
	language := sandbox.Language(languageName)
	if !sandbox.IsSupported(language) {
		return nil, fmt.Errorf("invalid language: %s, must be one of: %s",
			languageName, strings.Join(supportedLanguageNames(), ", "))
	}

	stdin := request.GetString("stdin", "")

	// Log execution
	s.logger.Info("executing code in sandbox",
		zap.String("language", languageName),
		zap.Bool("has_stdin", stdin != ""))

	executor, err := s.registry.Resolve(language)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executor: %w", err)
	}

	// Execute the code
	result, err := executor.Execute(ctx, sandbox.ExecuteRequest{
		Code:  code,
		Stdin: stdin,
	})
	if err != nil {
		s.logger.Error("sandbox execution failed",
			zap.Error(err),
			zap.String("language", languageName))
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf("Execution failed: %v", err),
				},
			},
			IsError: true,
		}, nil
	}

	// Log execution result
	s.logger.Info("code execution completed",
		zap.String("language", languageName),
		zap.Int("stdout_len", len(result.Stdout)),
		zap.Int("stderr_len", len(result.Stderr)))

	// Convert result to JSON string for content
	resultJSON := fmt.Sprintf(`{"stdout":%q,"stderr":%q}`, result.Stdout, result.Stderr)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: resultJSON,
			},
		},
	}, nil
}

// ServeStdio starts the server on stdio
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP starts the server on HTTP
func (s *MCPServer) ServeHTTP() error {
	port := s.config.Server.HTTPPort
	s.logger.Info("starting MCP server on HTTP", zap.Int("port", port))

	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	return httpServer.Start(fmt.Sprintf(":%d", port))
}

// GetMCPServer returns the underlying MCP server for fx
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
