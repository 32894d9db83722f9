package sandbox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
)

func TestWorkspaceCreateSourceFile(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("WritesContent", func(t *testing.T) {
		workspace, err := NewWorkspace(logger, t.TempDir(), RealFileSystem{})
		require.NoError(t, err)

		path, err := workspace.CreateSourceFile("py", []byte("print('hi')"))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, ".py"))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "print('hi')", string(content))
	})

	t.Run("SourceReadableByContainerUser", func(t *testing.T) {
		workspace, err := NewWorkspace(logger, t.TempDir(), RealFileSystem{})
		require.NoError(t, err)

		path, err := workspace.CreateSourceFile("php", []byte("<?php"))
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode().Perm()&0004, "source file must be world-readable")
	})

	t.Run("NamesNeverCollide", func(t *testing.T) {
		workspace, err := NewWorkspace(logger, t.TempDir(), RealFileSystem{})
		require.NoError(t, err)

		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			path, createErr := workspace.CreateSourceFile("rb", []byte("puts 1"))
			require.NoError(t, createErr)
			assert.False(t, seen[path], "duplicate workspace path: %s", path)
			seen[path] = true
		}
	})

	t.Run("ConcurrentCreatesStayIsolated", func(t *testing.T) {
		workspace, err := NewWorkspace(logger, t.TempDir(), RealFileSystem{})
		require.NoError(t, err)

		paths := make([]string, 50)
		g := new(errgroup.Group)
		for i := 0; i < 50; i++ {
			g.Go(func() error {
				path, createErr := workspace.CreateSourceFile("js", []byte("x"))
				paths[i] = path
				return createErr
			})
		}
		require.NoError(t, g.Wait())

		seen := make(map[string]bool)
		for _, path := range paths {
			assert.False(t, seen[path])
			seen[path] = true
		}
	})
}

func TestWorkspaceRemove(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("RemovesFile", func(t *testing.T) {
		workspace, err := NewWorkspace(logger, t.TempDir(), RealFileSystem{})
		require.NoError(t, err)

		path, err := workspace.CreateSourceFile("go", []byte("package main"))
		require.NoError(t, err)

		workspace.Remove(path)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("MissingFileIsLoggedNotFatal", func(t *testing.T) {
		workspace, err := NewWorkspace(logger, t.TempDir(), RealFileSystem{})
		require.NoError(t, err)

		// Must not panic or surface an error
		workspace.Remove(filepath.Join(workspace.Dir(), "never-created.py"))
	})
}

func TestNewWorkspace(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("CreatesNestedDirectory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "staging")
		workspace, err := NewWorkspace(logger, dir, RealFileSystem{})
		require.NoError(t, err)
		assert.Equal(t, dir, workspace.Dir())

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("EmptyDirFallsBackToTempDir", func(t *testing.T) {
		workspace, err := NewWorkspace(logger, "", RealFileSystem{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(workspace.Dir(), os.TempDir()))
	})

	t.Run("DirCreationFailure", func(t *testing.T) {
		fs := &MockFileSystem{mkdirErr: os.ErrPermission}
		_, err := NewWorkspace(logger, "/somewhere", fs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create workspace directory")
	})
}
