package filesys

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadJSON decodes the single JSON document stored in fName into v.
func ReadJSON(fName string, v any) error {
	data, err := os.ReadFile(fName)
	if err != nil {
		return fmt.Errorf("open file for read: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode JSON %s: %w", fName, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode JSON %s: unexpected data after the document", fName)
	}
	return nil
}

// WriteJSON writes v as indented JSON. The file is replaced atomically so readers
// never observe a partial document.
func WriteJSON(fName string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(fName), "."+filepath.Base(fName)+".*")
	if err != nil {
		return fmt.Errorf("open file for write %s: %w", fName, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", fName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", fName, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", fName, err)
	}
	if err := os.Rename(tmp.Name(), fName); err != nil {
		return fmt.Errorf("replace %s: %w", fName, err)
	}
	return nil
}
