package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WorkDir holds uploaded videos and their extracted audio for the lifetime
// of a single request.
type WorkDir struct {
	dir string
}

func NewWorkDir(dir string) (*WorkDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create work directory %s", dir)
	}
	return &WorkDir{dir: dir}, nil
}

func (w *WorkDir) Dir() string {
	return w.dir
}

// Path returns the location Persist uses for id and filename.
func (w *WorkDir) Path(id, filename string) string {
	return filepath.Join(w.dir, id+"_"+filename)
}

// Persist streams r into <dir>/<id>_<filename>. The file must not already
// exist. A partially written file is removed before returning an error.
func (w *WorkDir) Persist(id, filename string, r io.Reader) (string, int64, error) {
	path := w.Path(id, filename)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", 0, errors.Wrapf(err, "failed to create %s", path)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", n, errors.Wrapf(err, "failed to write %s", path)
	}

	return path, n, nil
}

// Remove deletes every path, ignoring ones that do not exist. It keeps
// going after a failure and returns the first error.
func (w *WorkDir) Remove(paths ...string) error {
	var first error
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && first == nil {
			first = errors.Wrapf(err, "failed to remove %s", path)
		}
	}
	return first
}
