package filesys

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rogpeppe/go-internal/dirhash"
	"github.com/zeebo/xxh3"
)

// ChecksumPrefix marks checksums produced by this package.
const ChecksumPrefix = "xxh3:"

func hashXXH3(files []string, open func(string) (io.ReadCloser, error)) (string, error) {
	h := xxh3.New()
	files = append([]string(nil), files...)
	sort.Strings(files)
	for _, file := range files {
		if strings.Contains(file, "\n") {
			return "", errors.New("dirhash: filenames with newlines are not supported")
		}
		r, err := open(file)
		if err != nil {
			return "", err
		}
		hf := xxh3.New()
		_, err = io.Copy(hf, r)
		r.Close()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%x  %s\n", hf.Sum(nil), file)
	}
	return ChecksumPrefix + base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// Checksum returns the checksum of a single message file content.
func Checksum(data []byte) string {
	sum := xxh3.Hash128(data)
	return fmt.Sprintf("%s%016x%016x", ChecksumPrefix, sum.Hi, sum.Lo)
}

// ComputeDirectoryHash hashes names and contents of all files under dir. Names
// are given relative to dir and joined to prefix, so the result equals
// ComputeFilesHash of the parent directory when prefix is the name of dir.
func ComputeDirectoryHash(dir, prefix string) (string, error) {
	return dirhash.HashDir(dir, prefix, hashXXH3)
}

// ComputeFilesHash hashes the listed files, given relative to dir.
func ComputeFilesHash(dir string, files []string) (string, error) {
	return hashXXH3(files, func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, name))
	})
}
