package packcmd

import (
	"context"
	"io/fs"
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
	dir := testsupp.InitLocaleFiles(t, map[string]string{
		"en-US/main.ftl": "hello = Hello\n",
		"de-DE/main.ftl": "hello = Hallo\n",
	})
	output := filepath.Join(t.TempDir(), "locales.zip")

	require.Error(t, execute(context.Background(), dir, PackOptions{Output: output}), "no manifest yet")

	m, err := manifest.Build(dir, language.AmericanEnglish)
	require.NoError(t, err)
	require.NoError(t, m.Save())
	require.NoError(t, execute(context.Background(), dir, PackOptions{Output: output}))

	archive, err := filesys.OpenArchive(output)
	require.NoError(t, err)
	defer archive.Close()

	var names []string
	require.NoError(t, fs.WalkDir(archive, ".", func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			names = append(names, path)
		}
		return err
	}))
	require.ElementsMatch(t, []string{manifest.FileName, "en-US/main.ftl", "de-DE/main.ftl"}, names)
}
