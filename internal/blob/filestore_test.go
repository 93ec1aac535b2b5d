package blob_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/serroba/linkshorter/internal/blob"
	"github.com/serroba/linkshorter/internal/shortener"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read(_ []byte) (int, error) { return 0, errors.New("read failed") }

func TestFileStore_SaveOpen(t *testing.T) {
	t.Run("round trips content", func(t *testing.T) {
		s := blob.NewFileStoreFs(afero.NewMemMapFs())

		require.NoError(t, s.Save(context.Background(), strings.NewReader("png-bytes"), "barcodes/ABCDE"))

		r, err := s.Open(context.Background(), "barcodes/ABCDE")
		require.NoError(t, err)

		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))
	})

	t.Run("overwrites existing blob", func(t *testing.T) {
		s := blob.NewFileStoreFs(afero.NewMemMapFs())

		require.NoError(t, s.Save(context.Background(), strings.NewReader("old"), "barcodes/ABCDE"))
		require.NoError(t, s.Save(context.Background(), strings.NewReader("new"), "barcodes/ABCDE"))

		r, err := s.Open(context.Background(), "barcodes/ABCDE")
		require.NoError(t, err)

		defer r.Close()

		data, _ := io.ReadAll(r)
		assert.Equal(t, "new", string(data))
	})

	t.Run("failed read leaves no blob behind", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		s := blob.NewFileStoreFs(fsys)

		err := s.Save(context.Background(), failingReader{}, "barcodes/ABCDE")
		require.Error(t, err)

		_, err = s.Open(context.Background(), "barcodes/ABCDE")
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		entries, err := s.List(context.Background(), "barcodes")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("cancelled context aborts save", func(t *testing.T) {
		s := blob.NewFileStoreFs(afero.NewMemMapFs())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Save(ctx, strings.NewReader("png-bytes"), "barcodes/ABCDE")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("open missing returns ErrNotFound", func(t *testing.T) {
		s := blob.NewFileStoreFs(afero.NewMemMapFs())

		r, err := s.Open(context.Background(), "barcodes/NOPE1")

		assert.Nil(t, r)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestFileStore_ListRemove(t *testing.T) {
	t.Run("lists blobs under prefix", func(t *testing.T) {
		s := blob.NewFileStoreFs(afero.NewMemMapFs())
		require.NoError(t, s.Save(context.Background(), strings.NewReader("a"), "barcodes/AAAAA"))
		require.NoError(t, s.Save(context.Background(), strings.NewReader("b"), "barcodes/BBBBB"))
		require.NoError(t, s.Save(context.Background(), strings.NewReader("c"), "other/CCCCC"))

		entries, err := s.List(context.Background(), "barcodes")
		require.NoError(t, err)

		paths := make([]string, 0, len(entries))
		for _, e := range entries {
			paths = append(paths, e.Path)
			assert.False(t, e.ModTime.IsZero())
		}

		assert.ElementsMatch(t, []string{"barcodes/AAAAA", "barcodes/BBBBB"}, paths)
	})

	t.Run("missing prefix lists nothing", func(t *testing.T) {
		s := blob.NewFileStoreFs(afero.NewMemMapFs())

		entries, err := s.List(context.Background(), "barcodes")

		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("removes blob and tolerates missing", func(t *testing.T) {
		s := blob.NewFileStoreFs(afero.NewMemMapFs())
		require.NoError(t, s.Save(context.Background(), strings.NewReader("a"), "barcodes/AAAAA"))

		require.NoError(t, s.Remove(context.Background(), "barcodes/AAAAA"))
		require.NoError(t, s.Remove(context.Background(), "barcodes/AAAAA"))

		_, err := s.Open(context.Background(), "barcodes/AAAAA")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}
