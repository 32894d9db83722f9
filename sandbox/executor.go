// Package sandbox provides secure code execution capabilities.
//
// The ContainerExecutor runs code in containers with security constraints
// including CPU and memory limits, network isolation, and a read-only
// source mount.
package sandbox

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the limits and runtime selection every execution is subject to
type Config struct {
	Runtime      string // container binary, "docker" or "podman"
	WorkspaceDir string
	CPUTimeSec   int
	MemoryMB     int
	WallTimeSec  int
	MaxOutputKB  int
}

// WallTimeout returns the orchestrator-side deadline as a duration
func (c *Config) WallTimeout() time.Duration {
	return time.Duration(c.WallTimeSec) * time.Second
}

// ContainerExecutor implements Executor for one language using a container
// runtime invoked through its CLI
type ContainerExecutor struct {
	logger    *zap.Logger
	config    *Config
	language  Language
	spec      langSpec
	image     string
	env       map[string]string
	workspace *Workspace
	cmdRunner CommandRunner
	fs        FileSystem
}

// ContainerExecutorOption defines a functional option for ContainerExecutor
type ContainerExecutorOption func(*ContainerExecutor)

// WithCommandRunner sets the CommandRunner for ContainerExecutor
func WithCommandRunner(cmdRunner CommandRunner) ContainerExecutorOption {
	return func(e *ContainerExecutor) {
		e.cmdRunner = cmdRunner
	}
}

// WithFileSystem sets the FileSystem for ContainerExecutor
func WithFileSystem(fs FileSystem) ContainerExecutorOption {
	return func(e *ContainerExecutor) {
		e.fs = fs
	}
}

// WithImage overrides the language's default container image
func WithImage(image string) ContainerExecutorOption {
	return func(e *ContainerExecutor) {
		if image != "" {
			e.image = image
		}
	}
}

// WithEnvironment merges extra environment variables into the container
func WithEnvironment(env map[string]string) ContainerExecutorOption {
	return func(e *ContainerExecutor) {
		for key, value := range env {
			e.env[key] = value
		}
	}
}

// WithWorkspaceHandle shares an existing workspace instead of creating one
func WithWorkspaceHandle(workspace *Workspace) ContainerExecutorOption {
	return func(e *ContainerExecutor) {
		e.workspace = workspace
	}
}

// NewContainerExecutor creates an executor for one language with default
// implementations and optional interfaces
func NewContainerExecutor(logger *zap.Logger, config *Config, lang Language, opts ...ContainerExecutorOption) (*ContainerExecutor, error) {
	spec, err := specForLanguage(lang)
	if err != nil {
		return nil, err
	}

	executor := &ContainerExecutor{
		logger:   logger.With(zap.String("language", string(lang))),
		config:   config,
		language: lang,
		spec:     spec,
		image:    spec.Image,
		env:      make(map[string]string, len(spec.Env)),
		cmdRunner: RealCommandRunner{
			MaxOutputBytes: config.MaxOutputKB * BytesPerKB,
		},
		fs: RealFileSystem{},
	}
	for key, value := range spec.Env {
		executor.env[key] = value
	}

	// Apply options
	for _, opt := range opts {
		opt(executor)
	}

	if executor.workspace == nil {
		workspace, wsErr := NewWorkspace(executor.logger, config.WorkspaceDir, executor.fs)
		if wsErr != nil {
			return nil, wsErr
		}
		executor.workspace = workspace
	}

	return executor, nil
}

// Language returns the language this executor runs
func (e *ContainerExecutor) Language() Language {
	return e.language
}

// Image returns the container image this executor launches
func (e *ContainerExecutor) Image() string {
	return e.image
}

// Execute stages the code, runs it in a container, and returns the captured
// output. A failing user program is not an error; infrastructure failures
// return a diagnostic result alongside the error so callers always have
// something to show.
func (e *ContainerExecutor) Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error) {
	sourcePath, err := e.workspace.CreateSourceFile(e.spec.Extension, []byte(req.Code))
	if err != nil {
		err = fmt.Errorf("failed to stage source file: %w", err)
		return failureResult(err), err
	}
	// Scheduled before launch so removal happens on every exit path.
	defer e.workspace.Remove(sourcePath)

	containerName := "execpad-" + uuid.NewString()
	cmdArgs := e.buildRunArgs(containerName, sourcePath)

	// The wall-clock deadline backstops the in-container ceilings.
	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.config.WallTimeout())
	defer cancel()

	res, err := e.cmdRunner.Run(ctxWithTimeout, cmdArgs, req.Stdin)

	// If the context timed out, handle it explicitly
	if ctxWithTimeout.Err() == context.DeadlineExceeded {
		e.stopContainer(ctx, containerName)

		return ExecuteResult{
			Stdout: res.Stdout,
			Stderr: res.Stderr + "\nExecution timed out",
		}, nil
	}

	if err != nil {
		err = fmt.Errorf("failed to execute container: %w", err)
		return failureResult(err), err
	}

	return ExecuteResult{
		Stdout: res.Stdout,
		Stderr: NormalizeStderr(res.ExitCode, res.Stderr),
	}, nil
}

// buildRunArgs assembles the isolation invocation: auto-removed container,
// no network, dropped capabilities, CPU and memory ceilings, and the staged
// source bind-mounted read-only at its fixed path.
func (e *ContainerExecutor) buildRunArgs(containerName, sourcePath string) []string {
	args := []string{
		e.config.Runtime, "run",
		"--name", containerName,
		"--rm", // Remove container after execution
		"-i",   // Keep stdin open so input can be forwarded
		"-v", fmt.Sprintf("%s:%s:ro", sourcePath, containerSourcePath(e.spec.Extension)),
		"--memory", fmt.Sprintf("%dm", e.config.MemoryMB),
		"--network", "none", // Disable network
		"--ulimit", fmt.Sprintf("cpu=%d", e.config.CPUTimeSec),
		"--security-opt", "no-new-privileges:true",
		"--user", "nobody", // Run as non-privileged user
		"--cap-drop", "ALL", // Drop all capabilities
	}

	// Sorted so the invocation is reproducible.
	keys := make([]string, 0, len(e.env))
	for key := range e.env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "-e", fmt.Sprintf("%s=%s", key, e.env[key]))
	}

	args = append(args, e.image)
	args = append(args, e.spec.Command...)

	return args
}

// stopContainer kills a container that outlived the wall-clock deadline
func (e *ContainerExecutor) stopContainer(ctx context.Context, containerName string) {
	stopCmd := exec.CommandContext(ctx, e.config.Runtime, "stop", containerName)
	if stopErr := stopCmd.Run(); stopErr != nil {
		e.logger.Warn("failed to stop container after timeout", zap.String("container", containerName), zap.Error(stopErr))
	}
}

// failureResult folds an infrastructure error into a result so the caller
// still receives output to display
func failureResult(err error) ExecuteResult {
	return ExecuteResult{Stderr: "Sandbox failure: " + err.Error()}
}
