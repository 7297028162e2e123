// Package manifest maintains locales.json, the index of a locale directory: the
// files of each locale and their checksum.
package manifest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/acronis/go-stacktrace"
	"golang.org/x/mod/semver"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl"
	"github.com/acronis/go-ftl/pkg/filesys"
)

const (
	FileName = "locales.json"
	FileExt  = ".ftl"

	// Version is the manifest format written by Build. Manifests with the same
	// major version can be read.
	Version = "v1.0.0"
)

type Locale struct {
	Files    []string `json:"files"`
	Checksum string   `json:"checksum"`
	Messages int      `json:"messages,omitempty"`
}

type Data struct {
	Version string            `json:"version"`
	Default string            `json:"default"`
	Locales map[string]Locale `json:"locales"`
}

// Manifest is the content of locales.json and the directory it describes.
type Manifest struct {
	Dir  string
	Data Data
}

// Build scans dir for message files laid out the way catalog.LoadFS reads them:
// "<locale>/*.ftl" or "<locale>.ftl". Deeper files are not indexed.
func Build(dir string, defaultLocale language.Tag) (*Manifest, error) {
	files, err := filesys.GlobLocaleFiles(os.DirFS(dir), FileExt)
	if err != nil {
		return nil, fmt.Errorf("scan locales: %w", err)
	}

	groups := map[string][]string{}
	for _, f := range files {
		tag, err := language.Parse(f.Locale)
		if err != nil {
			slog.Warn("Skipping file outside of a locale", slog.String("path", f.Path))
			continue
		}
		groups[tag.String()] = append(groups[tag.String()], f.Path)
	}

	m := &Manifest{
		Dir: dir,
		Data: Data{
			Version: Version,
			Default: defaultLocale.String(),
			Locales: map[string]Locale{},
		},
	}
	for locale, files := range groups {
		entry, err := describe(dir, files)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", locale, err)
		}
		m.Data.Locales[locale] = entry
	}
	if _, ok := m.Data.Locales[m.Data.Default]; !ok {
		return nil, fmt.Errorf("default locale %s has no message files in %s", m.Data.Default, dir)
	}
	return m, nil
}

func describe(dir string, files []string) (Locale, error) {
	sort.Strings(files)
	sum, err := filesys.ComputeFilesHash(dir, files)
	if err != nil {
		return Locale{}, fmt.Errorf("checksum: %w", err)
	}

	var messages int
	parser := ftl.NewParser()
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return Locale{}, fmt.Errorf("read %s: %w", f, err)
		}
		messages += len(parser.ParseResource(string(data)).Messages())
	}
	return Locale{Files: files, Checksum: sum, Messages: messages}, nil
}

// Open reads and validates the manifest at path.
func Open(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	d, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &Manifest{Dir: filepath.Dir(path), Data: d}, nil
}

// Decode validates the manifest content against its schema and checks the
// version and the locale tags.
func Decode(data []byte) (Data, error) {
	if err := validateSchema(data); err != nil {
		return Data{}, err
	}

	var d Data
	if err := json.Unmarshal(data, &d); err != nil {
		return Data{}, fmt.Errorf("unmarshal manifest: %w", err)
	}
	if !semver.IsValid(d.Version) {
		return Data{}, fmt.Errorf("$.version: invalid version %s", d.Version)
	}
	if semver.Major(d.Version) != semver.Major(Version) {
		return Data{}, fmt.Errorf("$.version: unsupported version %s, expected %s.x.y", d.Version, semver.Major(Version))
	}
	for locale := range d.Locales {
		if _, err := language.Parse(locale); err != nil {
			return Data{}, fmt.Errorf("$.locales[%s]: invalid locale: %w", locale, err)
		}
	}
	if _, ok := d.Locales[d.Default]; !ok {
		return Data{}, fmt.Errorf("$.default: locale %s is not listed", d.Default)
	}
	return d, nil
}

// DefaultLocale returns the parsed default locale.
func (m *Manifest) DefaultLocale() language.Tag {
	return language.Make(m.Data.Default)
}

// LocaleNames returns listed locales, the default one first.
func (m *Manifest) LocaleNames() []string {
	out := make([]string, 0, len(m.Data.Locales))
	for name := range m.Data.Locales {
		if name != m.Data.Default {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return append([]string{m.Data.Default}, out...)
}

// Files returns all listed files relative to the manifest directory.
func (m *Manifest) Files() []string {
	var out []string
	for _, name := range m.LocaleNames() {
		out = append(out, m.Data.Locales[name].Files...)
	}
	return out
}

// Save writes the manifest to locales.json inside its directory.
func (m *Manifest) Save() error {
	return filesys.WriteJSON(filepath.Join(m.Dir, FileName), m.Data)
}

// Verify compares the manifest with the current content of its directory.
func (m *Manifest) Verify() error {
	current, err := Build(m.Dir, m.DefaultLocale())
	if err != nil {
		return fmt.Errorf("rebuild manifest: %w", err)
	}

	var problems []string
	for _, name := range m.LocaleNames() {
		got, ok := current.Data.Locales[name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("locale %s: no message files found", name))
		case got.Checksum != m.Data.Locales[name].Checksum:
			problems = append(problems, fmt.Sprintf("locale %s: checksum mismatch", name))
		}
	}
	for _, name := range current.LocaleNames() {
		if _, ok := m.Data.Locales[name]; !ok {
			problems = append(problems, fmt.Sprintf("locale %s: not listed in %s", name, FileName))
		}
	}
	return m.problems("manifest is out of date", problems)
}

// VerifyDirectories checks that each locale directory holds exactly the files
// listed for it. Locales stored as a single "<locale>.ftl" file are skipped.
func (m *Manifest) VerifyDirectories() error {
	var problems []string
	for _, name := range m.LocaleNames() {
		locale := m.Data.Locales[name]
		dir := locale.directory()
		if dir == "" {
			continue
		}
		sum, err := filesys.ComputeDirectoryHash(filepath.Join(m.Dir, dir), dir)
		switch {
		case err != nil:
			problems = append(problems, fmt.Sprintf("locale %s: %v", name, err))
		case sum != locale.Checksum:
			problems = append(problems, fmt.Sprintf("locale %s: directory %s holds files not listed in %s", name, dir, FileName))
		}
	}
	return m.problems("locale directories do not match the manifest", problems)
}

func (m *Manifest) problems(msg string, problems []string) error {
	if len(problems) == 0 {
		return nil
	}

	st := stacktrace.New(msg+": "+strings.Join(problems, "; "), stacktrace.WithType("verify"))
	for _, p := range problems {
		_ = st.Append(stacktrace.New(p, stacktrace.WithInfo("dir", m.Dir), stacktrace.WithType("verify")))
	}
	return st
}

// directory returns the directory shared by all files of the locale, or an
// empty string when files lie at the root.
func (l Locale) directory() string {
	var dir string
	for _, f := range l.Files {
		first, _, nested := strings.Cut(f, "/")
		if !nested || (dir != "" && dir != first) {
			return ""
		}
		dir = first
	}
	return dir
}
