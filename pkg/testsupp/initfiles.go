package testsupp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// InitLocaleFiles writes files, keyed by slash-separated paths, into a fresh
// temporary directory and returns it.
func InitLocaleFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	testDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(testDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return testDir
}
