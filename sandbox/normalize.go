package sandbox

// ExitCodeKilled is reported by container runtimes when the process died to
// SIGKILL (128+9). Both the cgroup OOM killer and the CPU-time ulimit
// terminate runaway processes this way.
const ExitCodeKilled = 137

// killedDiagnostic is appended to stderr on a forced termination. The exit
// code alone cannot distinguish an out-of-memory kill from a CPU-time kill,
// nor either from a program that exits 137 on its own, so the wording stays
// tentative.
const killedDiagnostic = "Execution was forcibly terminated, likely after exceeding the CPU time or memory limit."

// NormalizeStderr rewrites the stderr of a finished execution so callers get
// a readable hint about forced termination instead of a bare exit status.
// Every other exit code passes stderr through untouched.
func NormalizeStderr(exitCode int, stderr string) string {
	if exitCode != ExitCodeKilled {
		return stderr
	}

	if stderr == "" {
		return killedDiagnostic
	}
	return stderr + "\n" + killedDiagnostic
}
