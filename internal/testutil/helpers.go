package testutil

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"antmart/internal/common"
	"antmart/internal/config"
)

// Layout returns the default layout rooted at a fresh temp directory.
// mutate may adjust the paths before they are resolved.
func Layout(t *testing.T, mutate func(*config.Paths)) *config.Layout {
	t.Helper()
	paths := config.Default().Paths
	paths.BaseDir = t.TempDir()
	if mutate != nil {
		mutate(&paths)
	}
	layout, err := paths.Layout()
	require.NoError(t, err)
	return layout
}

// FixedClock returns a clock stuck at now
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// WriteFile writes content to path, creating parent directories
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), common.DirPermissionNormal))
	require.NoError(t, os.WriteFile(path, []byte(content), common.FilePermissionNormal))
	return path
}

// CountLines returns the number of lines in a file
func CountLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	require.NoError(t, sc.Err())
	return n
}
