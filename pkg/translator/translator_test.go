package translator_test

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl/pkg/testsupp"
	"github.com/acronis/go-ftl/pkg/translator"
)

func newTranslator(t *testing.T, opts ...translator.Option) *translator.Translator {
	t.Helper()
	testsupp.InitLog(t)
	tr, err := translator.New(opts...)
	require.NoError(t, err)
	return tr
}

func TestNew_EmbeddedTableIsClean(t *testing.T) {
	tr := newTranslator(t, translator.WithStrict(true))

	require.Equal(t, []language.Tag{
		language.AmericanEnglish,
		language.MustParse("de-DE"),
		language.MustParse("fr-FR"),
		language.MustParse("pl-PL"),
	}, tr.Languages())
	require.NoError(t, tr.Report().Errors)
	for _, f := range tr.Report().Files {
		require.Empty(t, f.SyntaxErrors, f.Path)
		require.Empty(t, f.Overrides, f.Path)
	}
	require.Equal(t, language.AmericanEnglish, tr.Language())
}

func TestTranslator_English(t *testing.T) {
	tr := newTranslator(t)

	tests := map[string]struct {
		got  string
		want string
	}{
		"cloud conflict warning": {
			got:  tr.PrefixWarning(tr.CloudSynchronizeConflict()),
			want: "Warning: Your local and cloud backups are in conflict. Open Ludusavi and perform an upload or download to resolve this.",
		},
		"cloud sync failure": {
			got:  tr.PrefixWarning(tr.UnableToSynchronizeWithCloud()),
			want: "Warning: Unable to synchronize with cloud.",
		},
		"error prefix":       {got: tr.PrefixError("boom"), want: "Error: boom"},
		"no cloud changes":   {got: tr.NoCloudChanges(), want: "No changes to synchronize"},
		"zero cloud changes": {got: tr.CloudChanges(0), want: "No changes to synchronize"},
		"one cloud change":   {got: tr.CloudChanges(1), want: "One change to synchronize"},
		"cloud changes":      {got: tr.CloudChanges(7), want: "7 changes to synchronize"},
		"badge failed":       {got: tr.BadgeFailed(), want: "FAILED"},
		"badge duplicates":   {got: tr.BadgeDuplicates(), want: "DUPLICATES"},
		"badge duplicated":   {got: tr.BadgeDuplicated(), want: "DUPLICATED"},
		"badge ignored":      {got: tr.BadgeIgnored(), want: "IGNORED"},
		"redirected from":    {got: tr.BadgeRedirectedFrom("/old"), want: "FROM: /old"},
		"redirecting to":     {got: tr.BadgeRedirectingTo("/new"), want: "TO: /new"},
		"line redirected":    {got: tr.CliGameLineItemRedirected("/old"), want: "Redirected from: /old"},
		"line redirecting":   {got: tr.CliGameLineItemRedirecting("/new"), want: "Redirecting to: /new"},
		"one game":           {got: tr.ProcessedGames(1, 1), want: "1 game"},
		"many games":         {got: tr.ProcessedGames(1200, 1200), want: "1,200 games"},
		"games subset":       {got: tr.ProcessedGames(2, 3), want: "2 of 3 games"},
		"size":               {got: tr.ProcessedSize(100, 100), want: "100 B"},
		"size subset":        {got: tr.ProcessedSize(1024, 2048), want: "1.00 KiB of 2.00 KiB"},
		"failed entries": {
			got:  tr.SomeEntriesFailed(),
			want: "Some entries failed to process; look for FAILED in the output for details. Double check whether you can access those files or whether their paths are very long.",
		},
		"unrecognized games": {
			got:  tr.UnrecognizedGames([]string{"foo", "bar"}),
			want: "No info for these games:\n  - foo\n  - bar",
		},
		"restore confirmation": {
			got:  tr.ConfirmRestore("/backups"),
			want: "Are you sure you want to proceed with the restoration?\n\nThis will overwrite any current files with the backups from here:\n\n/backups\n\nIf you haven't already, consider doing a preview first so that there are no surprises.",
		},
		"backup confirmation": {
			got:  tr.ConfirmBackup("/backups", translator.PathActionMerge),
			want: "Are you sure you want to proceed with the backup? New save data will be merged into the target folder:\n\n/backups\n\nIf you haven't already, consider doing a preview first so that there are no surprises.",
		},
		"attribute": {
			got:  tr.Attribute("cli-unable-to-request-confirmation", "winpty-workaround", nil),
			want: "If you are using a Bash emulator (like Git Bash), try running winpty.",
		},
		"summary labels": {
			got:  tr.Overall() + "|" + tr.TotalGames() + "|" + tr.FileSize() + "|" + tr.FileLocation(),
			want: "Overall|Games|Size|Location",
		},
		"missing key": {got: tr.Text("does-not-exist", nil), want: "does-not-exist"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.got)
		})
	}
}

func TestTranslator_SetLanguage(t *testing.T) {
	tr := newTranslator(t)

	require.Equal(t, language.MustParse("de-DE"), tr.SetLanguage("de-DE"))
	require.Equal(t, "5 Spiele", tr.ProcessedGames(5, 5))
	require.Equal(t, "1 Spiel", tr.ProcessedGames(1, 1))
	require.Equal(t, "Warnung: Synchronisierung mit der Cloud nicht möglich.",
		tr.PrefixWarning(tr.UnableToSynchronizeWithCloud()))
	// Untranslated keys fall back to the reference locale.
	require.Equal(t, "Customize", tr.Text("button-customize", nil))

	require.Equal(t, language.MustParse("fr-FR"), tr.SetLanguage("fr-CA"))
	require.Equal(t, "3 jeux", tr.ProcessedGames(3, 3))
	require.Equal(t, "Aucun changement à synchroniser", tr.NoCloudChanges())
	require.Equal(t, "2 of 3 games", tr.ProcessedGames(2, 3))

	require.Equal(t, language.AmericanEnglish, tr.SetLanguage("ja"))
	require.Equal(t, "FAILED", tr.BadgeFailed())

	tr = newTranslator(t, translator.WithLanguage("pl-PL"))
	require.Equal(t, language.MustParse("pl-PL"), tr.Language())
}

func TestTranslator_PolishPlurals(t *testing.T) {
	tr := newTranslator(t, translator.WithLanguage("pl"))

	want := map[int]string{
		1:  "1 gra",
		3:  "3 gry",
		5:  "5 gier",
		12: "12 gier",
		22: "22 gry",
	}
	for n, w := range want {
		require.Equal(t, w, tr.ProcessedGames(n, n))
	}
	require.Equal(t, "2 z 5 gier", tr.ProcessedGames(2, 5))
	require.Equal(t, "Brak zmian do synchronizacji", tr.CloudChanges(0))
	require.Equal(t, "4 zmiany do synchronizacji", tr.CloudChanges(4))
	require.Equal(t, "Zachowaj 5 pełnych kopii", tr.Text("retention-full", map[string]any{"count": 5}))
}

func TestTranslator_Completeness(t *testing.T) {
	tr := newTranslator(t)

	require.Equal(t, 1.0, tr.Completeness(language.AmericanEnglish))
	de := tr.Completeness(language.MustParse("de-DE"))
	pl := tr.Completeness(language.MustParse("pl-PL"))
	require.Greater(t, de, pl)
	require.Greater(t, pl, 0.0)
	require.Less(t, de, 1.0)
	require.Equal(t, 0.0, tr.Completeness(language.Japanese))
}

func TestNewFromFS(t *testing.T) {
	testsupp.InitLog(t)

	fsys := fstest.MapFS{
		"en-US/main.ftl": {Data: []byte("badge-failed = BROKEN\nbad = {\n")},
	}
	tr, err := translator.NewFromFS(fsys)
	require.NoError(t, err)
	require.Equal(t, "BROKEN", tr.BadgeFailed())

	_, err = translator.NewFromFS(fsys, translator.WithStrict(true))
	require.Error(t, err)

	_, err = translator.NewFromFS(fstest.MapFS{"de-DE/main.ftl": {Data: []byte("a = b\n")}})
	require.Error(t, err)
}

func TestTranslator_Concurrent(t *testing.T) {
	tr := newTranslator(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					tr.SetLanguage([]string{"de-DE", "fr-FR", "en-US"}[j%3])
					continue
				}
				require.Contains(t, []string{"FAILED", "FEHLGESCHLAGEN", "ÉCHEC"}, tr.BadgeFailed())
			}
		}(i)
	}
	wg.Wait()
}

func TestTranslator_AdjustedSize(t *testing.T) {
	tr := newTranslator(t)

	tests := map[string]struct {
		bytes uint64
		want  string
	}{
		"zero":           {bytes: 0, want: "0 B"},
		"few bytes":      {bytes: 4, want: "4 B"},
		"below one KiB":  {bytes: 1023, want: "1023 B"},
		"exactly KiB":    {bytes: 1024, want: "1.00 KiB"},
		"fractional KiB": {bytes: 1536, want: "1.50 KiB"},
		"hundreds KiB":   {bytes: 102_400, want: "100.00 KiB"},
		"MiB":            {bytes: 5 * 1024 * 1024, want: "5.00 MiB"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, tr.AdjustedSize(tc.bytes))
		})
	}
}
