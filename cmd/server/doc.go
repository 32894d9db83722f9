// Package main is the entry point for the Execpad MCP server.
//
// The Execpad server implements a secure, configurable Model Context Protocol
// (MCP) server that executes untrusted user code (PHP, Python, Node.js, Ruby,
// Go, C++) in isolated sandboxes. The server supports both stdio and HTTP
// transports and provides security features including resource limits,
// network isolation, and a read-only source mount.
//
// The application uses Uber's fx framework for dependency injection and lifecycle
// management, with zap for structured logging and viper for configuration.
package main
