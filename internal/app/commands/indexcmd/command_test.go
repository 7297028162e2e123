package indexcmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl/pkg/manifest"
	"github.com/acronis/go-ftl/pkg/testsupp"
)

func TestExecute(t *testing.T) {
	testsupp.InitLog(t)
	dir := testsupp.InitLocaleFiles(t, map[string]string{
		"en-US/main.ftl": "hello = Hello\nbye = Bye\n",
		"de-DE/main.ftl": "hello = Hallo\n",
	})

	require.NoError(t, execute(context.Background(), dir, language.AmericanEnglish))

	m, err := manifest.Open(filepath.Join(dir, manifest.FileName))
	require.NoError(t, err)
	require.Equal(t, []string{"en-US", "de-DE"}, m.LocaleNames())
	require.Equal(t, 2, m.Data.Locales["en-US"].Messages)
	require.NoError(t, m.Verify())

	require.Error(t, execute(context.Background(), dir, language.French))
}
