package convert_test

import (
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl"
	"github.com/acronis/go-ftl/pkg/bundle"
	"github.com/acronis/go-ftl/pkg/convert"
)

const source = `-brand = Ludusavi

# Shown in the title bar.
about = About { -brand }
greet = Hello, { $name }!
processed-games = { $total-games ->
    [one] { $total-games } game
   *[other] { $total-games } games
}
cloud-changes = { $count ->
    [0] No changes
    [one] One change
   *[other] { NUMBER($count) } changes
}
confirm = { $action ->
    [merge] Merge into { $path }
   *[create] Create { $path }
}
button = Save
    .title = Save the backup
`

func newBundle(t *testing.T, res *ftl.Resource) *bundle.Bundle {
	t.Helper()
	b := bundle.New(language.English, bundle.WithUseIsolating(false))
	require.Empty(t, b.AddResource(res))
	return b
}

func format(t *testing.T, b *bundle.Bundle, id string, args bundle.Args) string {
	t.Helper()
	got, errs := b.Format(id, args)
	require.Empty(t, errs)
	return got
}

func TestImportJSON(t *testing.T) {
	res, err := convert.ImportJSON([]byte(`{
  "app": {"title": "Ludusavi", "greeting": "Hello, {name}!"},
  "button": "Save",
  "button.title": "Save the {{what}}",
  "raw": "Use {$curly} and { braces",
  "empty": ""
}`))
	require.NoError(t, err)

	var ids []string
	for _, m := range res.Messages() {
		ids = append(ids, m.ID)
	}
	require.Equal(t, []string{"app-title", "app-greeting", "button", "raw", "empty"}, ids)

	b := newBundle(t, res)
	require.Equal(t, "Ludusavi", format(t, b, "app-title", nil))
	require.Equal(t, "Hello, Anna!", format(t, b, "app-greeting", bundle.Args{"name": "Anna"}))
	require.Equal(t, "Use x and { braces", format(t, b, "raw", bundle.Args{"curly": "x"}))
	require.Equal(t, "", format(t, b, "empty", nil))

	got, errs := b.FormatAttribute("button", "title", bundle.Args{"what": "backup"})
	require.Empty(t, errs)
	require.Equal(t, "Save the backup", got)
}

func TestImportJSON_Errors(t *testing.T) {
	tests := map[string]string{
		"invalid json":      `{"a": `,
		"not an object":     `["a"]`,
		"array value":       `{"a": ["x"]}`,
		"invalid id":        `{"1st": "x"}`,
		"duplicate message": `{"a": "x", "a": "y"}`,
		"duplicate attr":    `{"a.b": "x", "a.b": "y"}`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := convert.ImportJSON([]byte(input))
			require.Error(t, err)
		})
	}
}

func TestExportJSON(t *testing.T) {
	res := ftl.MustParse(`-brand = Ludusavi
hello = Hello, { $name }!
button = Save
    .title = Save the backup
attrs =
    .label = Label
hello = Duplicate
`)
	data, err := convert.ExportJSON(res)
	require.NoError(t, err)
	require.Equal(t, `{
  "hello": "Hello, { $name }!",
  "button": "Save",
  "button.title": "Save the backup",
  "attrs.label": "Label"
}`, string(data))

	back, err := convert.ImportJSON(data)
	require.NoError(t, err)
	b := newBundle(t, back)
	require.Equal(t, "Hello, Anna!", format(t, b, "hello", bundle.Args{"name": "Anna"}))
	require.True(t, b.HasAttribute("attrs", "label"))
	require.False(t, b.HasMessage("-brand"))
}

func loadGoI18n(t *testing.T, data []byte) *i18n.Localizer {
	t.Helper()
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	_, err := b.ParseMessageFileBytes(data, "active.en.toml")
	require.NoError(t, err)
	return i18n.NewLocalizer(b, "en")
}

func TestExportGoI18n(t *testing.T) {
	data, err := convert.ExportGoI18n(ftl.MustParse(source))
	require.NoError(t, err)
	l := loadGoI18n(t, data)

	tests := map[string]struct {
		id    string
		count any
		data  map[string]any
		want  string
	}{
		"term inlined":        {id: "about", want: "About Ludusavi"},
		"identifier variable": {id: "greet", data: map[string]any{"name": "Anna"}, want: "Hello, Anna!"},
		"plural one":          {id: "processed-games", count: 1, data: map[string]any{"total-games": 1}, want: "1 game"},
		"plural other":        {id: "processed-games", count: 3, data: map[string]any{"total-games": 3}, want: "3 games"},
		"numeric key dropped": {id: "cloud-changes", count: 0, data: map[string]any{"count": 0}, want: "0 changes"},
		"plural with number":  {id: "cloud-changes", count: 1, data: map[string]any{"count": 1}, want: "One change"},
		"default variant":     {id: "confirm", data: map[string]any{"path": "/tmp"}, want: "Create /tmp"},
		"attribute":           {id: "button.title", want: "Save the backup"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := l.Localize(&i18n.LocalizeConfig{MessageID: tc.id, PluralCount: tc.count, TemplateData: tc.data})
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExportGoI18n_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown function": "a = { FOO($x) }\n",
		"cycle":            "a = { b }\nb = { a }\n",
		"unknown message":  "a = { nope }\n",
		"unknown term":     "a = { -nope }\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := convert.ExportGoI18n(ftl.MustParse(input))
			require.Error(t, err)
		})
	}
}

func TestImportGoI18n(t *testing.T) {
	res, err := convert.ImportGoI18n([]byte(`greeting = "Hello, {{.name}}!"
"menu.title" = "Menu"

[files]
description = "Number of files"
one = "{{.PluralCount}} file"
other = "{{.PluralCount}} files"

[size-label]
other = 'Size: {{index . "total-size"}}'
`), "active.en.toml")
	require.NoError(t, err)

	messages := res.Messages()
	require.Len(t, messages, 4)
	require.Equal(t, "files", messages[0].ID)
	require.NotNil(t, messages[0].Comment)
	require.Equal(t, "Number of files", messages[0].Comment.Content)

	b := newBundle(t, res)
	require.Equal(t, "1 file", format(t, b, "files", bundle.Args{"count": 1}))
	require.Equal(t, "7 files", format(t, b, "files", bundle.Args{"count": 7}))
	require.Equal(t, "Hello, Anna!", format(t, b, "greeting", bundle.Args{"name": "Anna"}))
	require.Equal(t, "Size: 1 KiB", format(t, b, "size-label", bundle.Args{"total-size": "1 KiB"}))

	got, errs := b.FormatAttribute("menu", "title", nil)
	require.Empty(t, errs)
	require.Equal(t, "Menu", got)
}

func TestGoI18n_RoundTrip(t *testing.T) {
	data, err := convert.ExportGoI18n(ftl.MustParse(source))
	require.NoError(t, err)
	res, err := convert.ImportGoI18n(data, "active.en.toml")
	require.NoError(t, err)

	b := newBundle(t, res)
	require.Equal(t, "About Ludusavi", format(t, b, "about", nil))
	require.Equal(t, "1 game", format(t, b, "processed-games", bundle.Args{"total-games": 1}))
	require.Equal(t, "5 games", format(t, b, "processed-games", bundle.Args{"total-games": 5}))
	got, errs := b.FormatAttribute("button", "title", nil)
	require.Empty(t, errs)
	require.Equal(t, "Save the backup", got)

	out, err := convert.ExportJSON(res)
	require.NoError(t, err)
	require.Equal(t, "Shown in the title bar.", res.Messages()[0].Comment.Content)
	require.Equal(t, "About Ludusavi", gjson.GetBytes(out, "about").String())
}

func TestImportGoI18n_Errors(t *testing.T) {
	_, err := convert.ImportGoI18n([]byte("a = "), "active.en.toml")
	require.Error(t, err)
	_, err = convert.ImportGoI18n([]byte("a = 'x'"), "active.en.yaml")
	require.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]struct {
		name    string
		path    string
		want    convert.Format
		wantErr bool
	}{
		"toml by extension": {path: "active.de.toml", want: convert.FormatGoI18n},
		"json by extension": {path: "strings/EN.JSON", want: convert.FormatJSON},
		"explicit name":     {name: "go-i18n", path: "active.de.json", want: convert.FormatGoI18n},
		"unknown extension": {path: "main.ftl", wantErr: true},
		"unknown name":      {name: "xliff", path: "main.json", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := convert.DetectFormat(tc.name, tc.path)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
