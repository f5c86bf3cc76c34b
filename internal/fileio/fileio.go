// Package fileio reads translation input and writes translation output.
// Output is staged in a temporary file next to the destination and renamed
// into place, so a failed run never leaves a partial file behind.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

type Files struct {
	fs afero.Fs
}

// New wraps fs; a nil fs means the real operating system filesystem.
func New(fs afero.Fs) *Files {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Files{fs: fs}
}

func (f *Files) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile creates missing parent directories and replaces path atomically.
func (f *Files) WriteFile(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := f.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	tmp, err := afero.TempFile(f.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		f.fs.Remove(tmpName)
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		f.fs.Remove(tmpName)
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	if err := f.fs.Chmod(tmpName, 0644); err != nil {
		f.fs.Remove(tmpName)
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	if err := f.fs.Rename(tmpName, path); err != nil {
		f.fs.Remove(tmpName)
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

func (f *Files) Exists(path string) bool {
	ok, err := afero.Exists(f.fs, path)
	return err == nil && ok
}

func (f *Files) Size(path string) (int64, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get file metadata %s: %w", path, err)
	}
	return info.Size(), nil
}

// SamePath reports whether a and b name the same file. Paths that do not
// exist yet are compared after cleaning.
func (f *Files) SamePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	if _, ok := f.fs.(*afero.OsFs); !ok {
		return false
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
