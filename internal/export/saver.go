package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/ragchat/internal"
)

// Saver hands an encoded artifact to the host's file-save mechanism
type Saver interface {
	Save(name string, r io.Reader) (path string, size int64, err error)
}

// DirSaver saves artifacts as files in one directory
type DirSaver struct {
	Dir string
}

// NewDirSaver creates a saver for dir
func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{Dir: dir}
}

// Save writes r to Dir/name. Names containing path separators are rejected
// so a backend-supplied name cannot escape the directory.
func (s *DirSaver) Save(name string, r io.Reader) (string, int64, error) {
	format := strings.TrimPrefix(filepath.Ext(name), ".")
	if err := validateName(name); err != nil {
		return "", 0, &internal.ExportError{Format: format, Path: name, Err: err}
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", 0, &internal.ExportError{Format: format, Path: s.Dir, Err: fmt.Errorf("failed to create output directory: %w", err)}
	}

	path := filepath.Join(s.Dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", 0, &internal.ExportError{Format: format, Path: path, Err: err}
	}

	n, err := io.Copy(file, r)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", 0, &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return "", 0, &internal.ExportError{Format: format, Path: path, Err: err}
	}

	internal.LogDebug("Saved %s (%d bytes)", path, n)
	return path, n, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("file name is required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}
