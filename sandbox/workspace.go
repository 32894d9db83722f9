package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Workspace stages untrusted source code as ephemeral files on the host.
// File names carry a random token so concurrent executions never collide;
// no locking is involved.
type Workspace struct {
	logger *zap.Logger
	dir    string
	fs     FileSystem
}

// NewWorkspace creates a workspace rooted at dir, creating the directory if
// needed. An empty dir falls back to a subdirectory of the OS temp dir.
func NewWorkspace(logger *zap.Logger, dir string, fs FileSystem) (*Workspace, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "execpad")
	}

	if err := fs.MkdirAll(dir, DirPermission); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	return &Workspace{
		logger: logger,
		dir:    dir,
		fs:     fs,
	}, nil
}

// Dir returns the directory the workspace stages files in
func (w *Workspace) Dir() string {
	return w.dir
}

// CreateSourceFile writes code to a freshly named file and returns its path.
// The name is a random token plus the language extension, so two executions
// can never observe each other's source.
func (w *Workspace) CreateSourceFile(ext string, code []byte) (string, error) {
	path := filepath.Join(w.dir, uuid.NewString()+"."+ext)

	if err := w.fs.WriteFile(path, code, FilePermission); err != nil {
		return "", fmt.Errorf("failed to write source file: %w", err)
	}

	return path, nil
}

// Remove deletes a staged source file. Removal is best-effort: failures are
// logged, never propagated.
func (w *Workspace) Remove(path string) {
	if err := w.fs.Remove(path); err != nil {
		w.logger.Error("failed to remove source file", zap.String("path", path), zap.Error(err))
	}
}
