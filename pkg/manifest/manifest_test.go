package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl/pkg/catalog"
	"github.com/acronis/go-ftl/pkg/testsupp"
)

func writeLocales(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func localeDir(t *testing.T) string {
	t.Helper()
	testsupp.InitLog(t)
	dir := t.TempDir()
	writeLocales(t, dir, map[string]string{
		"en-US/main.ftl": "hello = Hello\nbye = Bye\n",
		"en-US/cli.ftl":  "badge-failed = FAILED\n",
		"de-DE/main.ftl": "hello = Hallo\n",
		"fr.ftl":         "hello = Bonjour\n",
		"x!/main.ftl":    "hello = ?\n",
		"README.md":      "docs",
	})
	return dir
}

func TestBuild(t *testing.T) {
	dir := localeDir(t)

	m, err := Build(dir, language.AmericanEnglish)
	require.NoError(t, err)
	require.Equal(t, Version, m.Data.Version)
	require.Equal(t, "en-US", m.Data.Default)
	require.Equal(t, []string{"en-US", "de-DE", "fr"}, m.LocaleNames())
	require.Equal(t, []string{"en-US/cli.ftl", "en-US/main.ftl"}, m.Data.Locales["en-US"].Files)
	require.Equal(t, 3, m.Data.Locales["en-US"].Messages)
	require.Equal(t, []string{"fr.ftl"}, m.Data.Locales["fr"].Files)
	require.Equal(t,
		[]string{"en-US/cli.ftl", "en-US/main.ftl", "de-DE/main.ftl", "fr.ftl"},
		m.Files())

	_, err = Build(dir, language.Japanese)
	require.Error(t, err)
}

func TestSaveOpenVerify(t *testing.T) {
	dir := localeDir(t)

	m, err := Build(dir, language.AmericanEnglish)
	require.NoError(t, err)
	require.NoError(t, m.Save())

	opened, err := Open(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.Equal(t, m.Data, opened.Data)
	require.Equal(t, language.AmericanEnglish, opened.DefaultLocale())
	require.NoError(t, opened.Verify())

	writeLocales(t, dir, map[string]string{
		"de-DE/main.ftl": "hello = Servus\n",
		"pl-PL/main.ftl": "hello = Cześć\n",
	})
	require.NoError(t, os.Remove(filepath.Join(dir, "fr.ftl")))

	err = opened.Verify()
	require.Error(t, err)
	require.ErrorContains(t, err, "locale de-DE: checksum mismatch")
	require.ErrorContains(t, err, "locale fr: no message files found")
	require.ErrorContains(t, err, "locale pl-PL: not listed in locales.json")
}

func TestDecode(t *testing.T) {
	tests := map[string]struct {
		data    string
		wantErr string
	}{
		"valid": {
			data: `{"version": "v1.2.0", "default": "en-US", "locales": {"en-US": {"files": ["en-US/main.ftl"], "checksum": "xxh3:abc"}}}`,
		},
		"not an object": {
			data:    `[]`,
			wantErr: "manifest validation failed",
		},
		"missing locales": {
			data:    `{"version": "v1.0.0", "default": "en-US"}`,
			wantErr: "locales",
		},
		"wrong file extension": {
			data:    `{"version": "v1.0.0", "default": "en-US", "locales": {"en-US": {"files": ["main.json"], "checksum": "xxh3:abc"}}}`,
			wantErr: "manifest validation failed",
		},
		"unknown property": {
			data:    `{"version": "v1.0.0", "default": "en-US", "extra": 1, "locales": {"en-US": {"files": ["a.ftl"], "checksum": "xxh3:abc"}}}`,
			wantErr: "manifest validation failed",
		},
		"unsupported major version": {
			data:    `{"version": "v2.0.0", "default": "en-US", "locales": {"en-US": {"files": ["a.ftl"], "checksum": "xxh3:abc"}}}`,
			wantErr: "unsupported version v2.0.0",
		},
		"default not listed": {
			data:    `{"version": "v1.0.0", "default": "de-DE", "locales": {"en-US": {"files": ["a.ftl"], "checksum": "xxh3:abc"}}}`,
			wantErr: "$.default",
		},
		"invalid locale": {
			data:    `{"version": "v1.0.0", "default": "en-US", "locales": {"en-US": {"files": ["a.ftl"], "checksum": "xxh3:abc"}, "x!": {"files": ["b.ftl"], "checksum": "xxh3:abc"}}}`,
			wantErr: "$.locales[x!]",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data))
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
}

func TestBuild_MatchesCatalogLayout(t *testing.T) {
	dir := localeDir(t)
	writeLocales(t, dir, map[string]string{
		"en-US/drafts/old.ftl": "old = Old\n",
		"de-DE/v2/main.ftl":    "hello = Hallo\n",
	})

	m, err := Build(dir, language.AmericanEnglish)
	require.NoError(t, err)

	c := catalog.New(language.AmericanEnglish)
	report, err := c.LoadDir(dir)
	require.NoError(t, err)
	var loaded []string
	for _, f := range report.Files {
		loaded = append(loaded, f.Path)
	}
	require.ElementsMatch(t, loaded, m.Files())
	require.NotContains(t, m.Files(), "en-US/drafts/old.ftl")
	require.Equal(t, 3, m.Data.Locales["en-US"].Messages)
}

func TestVerifyDirectories(t *testing.T) {
	dir := localeDir(t)

	m, err := Build(dir, language.AmericanEnglish)
	require.NoError(t, err)
	require.NoError(t, m.VerifyDirectories())

	writeLocales(t, dir, map[string]string{"de-DE/notes.txt": "stray"})
	require.NoError(t, m.Verify(), "only message files are indexed")
	err = m.VerifyDirectories()
	require.ErrorContains(t, err, "locale de-DE: directory de-DE holds files not listed in locales.json")
	require.NotContains(t, err.Error(), "locale fr")
}
