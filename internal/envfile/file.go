package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"terrateam-setup/pkg/logging"
)

const fileMode = 0o600

// File is an env file on disk.
type File struct {
	Path string
}

// New returns a File for path.
func New(path string) *File {
	return &File{Path: path}
}

// Read returns the file content. A missing file reads as empty.
func (f *File) Read() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read env file %s: %w", f.Path, err)
	}
	return string(data), nil
}

// Write replaces the file content atomically via a temp file in the same
// directory.
func (f *File) Write(content string) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return fmt.Errorf("failed to replace env file %s: %w", f.Path, err)
	}
	return nil
}

// Apply merges updates into the file and writes it back.
func (f *File) Apply(updates map[string]string) error {
	existing, err := f.Read()
	if err != nil {
		return err
	}
	if err := f.Write(Merge(existing, updates)); err != nil {
		return err
	}
	logging.Info("EnvFile", "Updated %s with keys %v", f.Path, SortedKeys(updates))
	return nil
}

// Lookup returns the value of key as parsed by godotenv.
func (f *File) Lookup(key string) (string, bool, error) {
	content, err := f.Read()
	if err != nil {
		return "", false, err
	}
	values, err := godotenv.Unmarshal(content)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse env file %s: %w", f.Path, err)
	}
	value, ok := values[key]
	return value, ok, nil
}
