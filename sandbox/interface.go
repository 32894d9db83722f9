// Package sandbox provides secure code execution capabilities.
//
// The sandbox package implements the execution engine for running untrusted
// code in isolated containers. Each execution stages the source in an
// ephemeral workspace file, runs it under resource limits, and returns the
// captured output streams.
package sandbox

import (
	"context"
	"os"
)

// ExecuteRequest represents the parameters for one code execution
type ExecuteRequest struct {
	Code  string
	Stdin string
}

// ExecuteResult represents the result of code execution. It is always
// populated: infrastructure failures are folded into Stderr as a
// diagnostic message.
type ExecuteResult struct {
	Stdout string
	Stderr string
}

// Executor defines the interface for running one piece of source code
// to completion inside the sandbox
type Executor interface {
	Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error)
}

// CommandResult captures what a finished process left behind
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner defines an interface for executing system commands.
// The stdin contents are delivered in full before the pipe is closed,
// so the child observes EOF once the input is consumed.
type CommandRunner interface {
	Run(ctx context.Context, args []string, stdin string) (CommandResult, error)
}

// FileSystem defines an interface for file system operations
type FileSystem interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(filename string, data []byte, perm os.FileMode) error
	Remove(path string) error
}

// RealFileSystem implements FileSystem using actual file system operations
type RealFileSystem struct{}

func (RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (RealFileSystem) WriteFile(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}

func (RealFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// File permission and size constants
const (
	DirPermission = 0755
	// FilePermission must keep staged sources readable by the unprivileged
	// container user the runtime switches to.
	FilePermission = 0644
	BytesPerKB     = 1024
)
