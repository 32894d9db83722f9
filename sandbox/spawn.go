package sandbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// truncationNotice marks a stream that grew past the capture limit.
const truncationNotice = "\n[output truncated]"

// RealCommandRunner implements CommandRunner using os/exec. Stdin is written
// in full and the pipe closed so the child sees EOF; stdout and stderr are
// drained concurrently until the process terminates, never buffering more
// than MaxOutputBytes of either stream.
type RealCommandRunner struct {
	// MaxOutputBytes bounds each captured stream. Zero or negative means
	// unbounded capture.
	MaxOutputBytes int
}

// Run executes the given command with arguments, feeding it stdin
func (r RealCommandRunner) Run(ctx context.Context, args []string, stdin string) (CommandResult, error) {
	if len(args) < 1 {
		return CommandResult{}, fmt.Errorf("no command provided")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // Safe as this is controlled input
	// os/exec closes the write end after the reader drains; a child that
	// exits early just surfaces EOF or an ignored EPIPE.
	cmd.Stdin = strings.NewReader(stdin)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return CommandResult{}, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return CommandResult{}, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if startErr := cmd.Start(); startErr != nil {
		return CommandResult{}, fmt.Errorf("failed to start command: %w", startErr)
	}

	var stdout, stderr string
	g := new(errgroup.Group)
	g.Go(func() error {
		captured, captureErr := r.capture(stdoutPipe)
		stdout = captured
		return captureErr
	})
	g.Go(func() error {
		captured, captureErr := r.capture(stderrPipe)
		stderr = captured
		return captureErr
	})

	// Both pipes must be drained before Wait closes them.
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	if drainErr != nil {
		return CommandResult{}, fmt.Errorf("failed to read command output: %w", drainErr)
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return CommandResult{}, waitErr
		}
	}

	return CommandResult{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
	}, nil
}

// capture reads one stream to completion. Anything beyond the limit is
// discarded rather than left in the pipe, so the child never blocks on a
// full buffer.
func (r RealCommandRunner) capture(stream io.Reader) (string, error) {
	if r.MaxOutputBytes <= 0 {
		data, err := io.ReadAll(stream)
		return string(data), err
	}

	data, err := io.ReadAll(io.LimitReader(stream, int64(r.MaxOutputBytes)))
	if err != nil {
		return string(data), err
	}

	discarded, err := io.Copy(io.Discard, stream)
	if err != nil {
		return string(data), err
	}
	if discarded > 0 {
		return string(data) + truncationNotice, nil
	}

	return string(data), nil
}
