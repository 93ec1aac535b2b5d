package blob

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/serroba/linkshorter/internal/barcode"
	"github.com/serroba/linkshorter/internal/shortener"
	"github.com/spf13/afero"
)

// FileStore keeps blobs as files. Keys are slash-separated paths relative to the store root.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore creates a store rooted at dir on the OS filesystem.
func NewFileStore(dir string) *FileStore {
	return NewFileStoreFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewFileStoreFs creates a store over an arbitrary afero filesystem.
func NewFileStoreFs(fsys afero.Fs) *FileStore {
	return &FileStore{fs: fsys}
}

// Save writes r to a temporary file next to the target and renames it into place,
// so readers never observe a partially written blob.
func (s *FileStore) Save(ctx context.Context, r io.Reader, key string) error {
	name := filepath.FromSlash(key)
	dir := filepath.Dir(name)

	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, dir, ".blob-*")
	if err != nil {
		return err
	}

	_, err = io.Copy(tmp, contextReader{ctx: ctx, r: r})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = s.fs.Remove(tmp.Name())

		return err
	}

	if err = s.fs.Rename(tmp.Name(), name); err != nil {
		_ = s.fs.Remove(tmp.Name())

		return err
	}

	return nil
}

// Open returns the blob stored under key, or shortener.ErrNotFound.
func (s *FileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.fs.Open(filepath.FromSlash(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shortener.ErrNotFound
	}

	return f, err
}

// List returns the blobs below prefix. Temporary files of in-flight saves are skipped.
func (s *FileStore) List(ctx context.Context, prefix string) ([]barcode.BlobEntry, error) {
	var entries []barcode.BlobEntry

	root := filepath.FromSlash(prefix)
	if root == "" {
		root = "."
	}

	err := afero.Walk(s.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}

			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if info.IsDir() || isTemp(info.Name()) {
			return nil
		}

		entries = append(entries, barcode.BlobEntry{
			Path:    filepath.ToSlash(filepath.Clean(p)),
			ModTime: info.ModTime(),
		})

		return nil
	})

	return entries, err
}

// Remove deletes the blob under key. Removing a missing blob is not an error.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.fs.Remove(filepath.FromSlash(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func isTemp(name string) bool {
	return len(name) > 6 && name[:6] == ".blob-"
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}

var (
	_ barcode.BlobStore  = (*FileStore)(nil)
	_ barcode.BlobLister = (*FileStore)(nil)
)
