// Package sandbox provides secure code execution capabilities.
//
// The sandbox package implements the execution engine for running untrusted
// code in isolated containers. Each execution stages the submitted source as
// a uniquely named file in an ephemeral workspace, bind-mounts it read-only
// into a language-specific container with CPU, memory, and network
// restrictions, forwards the request's stdin, and captures stdout and stderr
// until the process terminates. Forced terminations (exit code 137) are
// rewritten into a readable diagnostic.
//
// The package defines the Executor interface and a container-backed
// implementation parameterized per language. The Registry builds one
// executor for every supported language at startup and dispatches requests
// to them.
//
// Usage:
//
//	registry, err := sandbox.NewRegistry(logger, cfg)
//	executor, err := registry.Resolve(sandbox.LanguagePython)
//	result, err := executor.Execute(ctx, sandbox.ExecuteRequest{
//	    Code:  "print(input())",
//	    Stdin: "Hello, World!",
//	})
package sandbox
