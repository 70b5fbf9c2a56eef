package templating

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// SeedDefaults copies every file in fsys into dir, creating directories as
// needed. Files that already exist in dir are left untouched, so local edits
// survive restarts. It returns the number of files written.
func SeedDefaults(fsys fs.FS, dir string) (int, error) {
	written := 0
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if _, err = os.Stat(target); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		if err = atomic.WriteFile(target, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		written++
		return nil
	})
	return written, err
}
