package testsupp

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// RootPath returns an absolute path inside the module, given relative to its root.
func RootPath(t *testing.T, relPath string) string {
	t.Helper()

	_, b, _, ok := runtime.Caller(0)
	require.True(t, ok)
	root := filepath.Join(filepath.Dir(b), "..", "..")
	return filepath.Join(root, filepath.FromSlash(relPath))
}
