package unpackcmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl/pkg/filesys"
	"github.com/acronis/go-ftl/pkg/manifest"
	"github.com/acronis/go-ftl/pkg/testsupp"
)

func TestExecute(t *testing.T) {
	testsupp.InitLog(t)
	src := testsupp.InitLocaleFiles(t, map[string]string{
		"en-US/main.ftl": "hello = Hello\n",
		"de-DE/main.ftl": "hello = Hallo\n",
	})
	m, err := manifest.Build(src, language.AmericanEnglish)
	require.NoError(t, err)
	require.NoError(t, m.Save())

	archive := filepath.Join(t.TempDir(), "locales.zip")
	require.NoError(t, filesys.Pack(src, append([]string{manifest.FileName}, m.Files()...), archive))

	dest := t.TempDir()
	require.NoError(t, execute(context.Background(), archive, dest))
	data, err := os.ReadFile(filepath.Join(dest, "de-DE", "main.ftl"))
	require.NoError(t, err)
	require.Equal(t, "hello = Hallo\n", string(data))
}

func TestExecute_DetectsTampering(t *testing.T) {
	testsupp.InitLog(t)
	src := testsupp.InitLocaleFiles(t, map[string]string{
		"en-US/main.ftl": "hello = Hello\n",
	})
	m, err := manifest.Build(src, language.AmericanEnglish)
	require.NoError(t, err)
	require.NoError(t, m.Save())
	require.NoError(t, os.WriteFile(filepath.Join(src, "en-US", "main.ftl"), []byte("hello = Changed\n"), 0644))

	archive := filepath.Join(t.TempDir(), "locales.zip")
	require.NoError(t, filesys.Pack(src, append([]string{manifest.FileName}, m.Files()...), archive))

	require.ErrorContains(t, execute(context.Background(), archive, t.TempDir()), "checksum mismatch")
	require.Error(t, execute(context.Background(), filepath.Join(t.TempDir(), "missing.zip"), t.TempDir()))
}

func TestExecute_RejectsUnlistedFiles(t *testing.T) {
	testsupp.InitLog(t)
	src := testsupp.InitLocaleFiles(t, map[string]string{
		"en-US/main.ftl":  "hello = Hello\n",
		"en-US/notes.txt": "not a message file",
	})
	m, err := manifest.Build(src, language.AmericanEnglish)
	require.NoError(t, err)
	require.NoError(t, m.Save())

	archive := filepath.Join(t.TempDir(), "locales.zip")
	files := append([]string{manifest.FileName, "en-US/notes.txt"}, m.Files()...)
	require.NoError(t, filesys.Pack(src, files, archive))

	require.ErrorContains(t, execute(context.Background(), archive, t.TempDir()), "not listed in locales.json")
}
