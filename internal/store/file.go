package store

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"

	"github.com/inkcell/inkcell/internal/eval"
)

// FileStore persists each workbook as id+".gob" under a base directory,
// writing atomically via renameio's write-to-temp-then-rename so a
// crash mid-save can never leave a half-written snapshot in place.
// Grounded on aretext's file/save_unix.go.
type FileStore struct {
	BaseDir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if absent.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "store: create base dir")
	}
	return &FileStore{BaseDir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.BaseDir, id+".gob")
}

func (s *FileStore) Load(id string) (*eval.Engine, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, errors.Wrapf(err, "store: read %q", id)
	}
	snap, err := decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "store: decode %q", id)
	}
	if snap.Version != snapshotVersion {
		return nil, errors.Errorf("store: %q has snapshot version %d, want %d", id, snap.Version, snapshotVersion)
	}
	return restore(snap)
}

func (s *FileStore) Save(id string, e *eval.Engine) error {
	data, err := encode(snapshot(e))
	if err != nil {
		return errors.Wrapf(err, "store: encode %q", id)
	}
	pf, err := renameio.NewPendingFile(s.path(id), renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return errors.Wrap(err, "store: open pending file")
	}
	defer pf.Cleanup()
	if _, err := io.Copy(pf, bytes.NewReader(data)); err != nil {
		return errors.Wrap(err, "store: write")
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(err, "store: rename into place")
	}
	return nil
}

func (s *FileStore) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "store: delete %q", id)
	}
	return nil
}
