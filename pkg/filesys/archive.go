package filesys

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxFileSize limits every file extracted from an archive.
const maxFileSize = 10 << 20 // 10 MB

// Archive is a read-only zip archive usable as fs.FS.
type Archive struct {
	*zip.ReadCloser
}

// OpenArchive opens a zip archive of locale files.
func OpenArchive(source string) (*Archive, error) {
	r, err := zip.OpenReader(source)
	if err != nil {
		return nil, fmt.Errorf("open zip file: %w", err)
	}
	return &Archive{ReadCloser: r}, nil
}

var _ fs.FS = (*Archive)(nil)

// Pack writes the listed files, given relative to dir, into a zip archive at dst.
// A failed pack leaves no archive behind.
func Pack(dir string, files []string, dst string) (err error) {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		out.Close()
		if err != nil {
			os.Remove(dst)
		}
	}()

	zw := zip.NewWriter(out)
	for _, name := range files {
		if err = addToZip(zw, dir, name); err != nil {
			return err
		}
	}
	if err = zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

func addToZip(zw *zip.Writer, dir, name string) error {
	src, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	w, err := zw.Create(filepath.ToSlash(name))
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}

func sanitizeAndValidatePath(dest string, src string) (string, error) {
	// Sanitize the file name and remove any dangerous characters
	filePath := filepath.Join(dest, filepath.Clean(src))

	// Ensure file paths don't escape the target directory using filepath.Rel for strict comparison
	relPath, err := filepath.Rel(dest, filePath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", fmt.Errorf("invalid file path: %s", filePath)
	}
	return filePath, nil
}

// SecureUnzip extracts the archive into dest, rejecting entries that escape it.
func SecureUnzip(src string, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open zip file: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		filePath, err := sanitizeAndValidatePath(dest, f.Name)
		if err != nil {
			return fmt.Errorf("sanitize file path: %w", err)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(filePath, os.ModePerm); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			continue
		}

		if f.UncompressedSize64 > maxFileSize {
			return fmt.Errorf("file too large: %s", f.Name)
		}
		if err := extractFile(f, filePath); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	destFile, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer destFile.Close()

	srcFile, err := f.Open()
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer srcFile.Close()

	if _, err := io.CopyN(destFile, srcFile, maxFileSize); err != nil && err != io.EOF {
		return fmt.Errorf("copy file: %w", err)
	}
	return nil
}
