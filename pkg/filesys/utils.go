package filesys

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/copy"
)

// GetBaseName Get filename without extension.
func GetBaseName(fileName string) string {
	filename := path.Base(fileName)

	return filename[:len(filename)-len(filepath.Ext(filename))]
}

func GetDirName(filePath string) string {
	return filepath.Base(filepath.Dir(filePath))
}

// LocaleFile is a message file of a locale directory.
type LocaleFile struct {
	// Path is slash-separated and relative to the directory root.
	Path string
	// Locale is the directory name, or the file name without extension for files
	// placed at the root.
	Locale string
}

// GlobLocaleFiles lists "<locale>/*<ext>" and "<locale><ext>" files at the root of
// fsys, sorted by path. Deeper files belong to no locale and are not listed.
func GlobLocaleFiles(fsys fs.FS, ext string) ([]LocaleFile, error) {
	var out []LocaleFile
	for _, pattern := range []string{"*/*" + ext, "*" + ext} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if info, err := fs.Stat(fsys, m); err != nil || info.IsDir() {
				continue
			}
			locale := path.Dir(m)
			if locale == "." {
				locale = strings.TrimSuffix(path.Base(m), ext)
			}
			out = append(out, LocaleFile{Path: m, Locale: locale})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// WalkDir returns sorted paths of all files under root with the extension.
func WalkDir(root, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(d.Name()) == ext {
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// CopyDir copies src into dst. It fails if dst already exists.
func CopyDir(src, dst string, skip func(path string) bool) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("destination %s already exists", dst)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", dst, err)
	}

	opts := copy.Options{
		Skip: func(_ os.FileInfo, src, _ string) (bool, error) {
			return skip != nil && skip(src), nil
		},
	}
	if err := copy.Copy(src, dst, opts); err != nil {
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return nil
}
