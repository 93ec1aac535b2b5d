package store_test

import (
	"context"
	"testing"

	"github.com/serroba/linkshorter/internal/barcode"
	"github.com/serroba/linkshorter/internal/shortener"
	"github.com/serroba/linkshorter/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLink(token, url string) *shortener.ShortLink {
	return &shortener.ShortLink{Token: shortener.Token(token), URL: url}
}

func TestMemoryStore_Save(t *testing.T) {
	t.Run("assigns increasing ids", func(t *testing.T) {
		s := store.NewMemoryStore()

		first := newLink("AAAAA", "https://example.com/a")
		second := newLink("BBBBB", "https://example.com/b")

		require.NoError(t, s.Save(context.Background(), first))
		require.NoError(t, s.Save(context.Background(), second))

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("rejects duplicate token", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Save(context.Background(), newLink("AAAAA", "https://example.com/a")))

		dup := newLink("AAAAA", "https://example.com/b")
		err := s.Save(context.Background(), dup)

		assert.ErrorIs(t, err, shortener.ErrConflict)
		assert.Zero(t, dup.ID)
	})

	t.Run("rejects duplicate url", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Save(context.Background(), newLink("AAAAA", "https://example.com/a")))

		err := s.Save(context.Background(), newLink("BBBBB", "https://example.com/a"))

		assert.ErrorIs(t, err, shortener.ErrConflict)
	})
}

func TestMemoryStore_Lookups(t *testing.T) {
	s := store.NewMemoryStore()
	saved := newLink("ABCDE", "https://example.com")
	require.NoError(t, s.Save(context.Background(), saved))

	t.Run("get by token", func(t *testing.T) {
		link, err := s.GetByToken(context.Background(), "ABCDE")

		require.NoError(t, err)
		assert.Equal(t, saved.ID, link.ID)
		assert.Equal(t, "https://example.com", link.URL)
	})

	t.Run("get by url", func(t *testing.T) {
		link, err := s.GetByURL(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, shortener.Token("ABCDE"), link.Token)
	})

	t.Run("returned links are copies", func(t *testing.T) {
		link, _ := s.GetByToken(context.Background(), "ABCDE")
		link.URL = "https://changed.com"

		again, _ := s.GetByToken(context.Background(), "ABCDE")
		assert.Equal(t, "https://example.com", again.URL)
	})

	t.Run("exists by token", func(t *testing.T) {
		exists, err := s.ExistsByToken(context.Background(), "ABCDE")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.ExistsByToken(context.Background(), "ZZZZZ")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("returns ErrNotFound when absent", func(t *testing.T) {
		_, err := s.GetByToken(context.Background(), "ZZZZZ")
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		_, err = s.GetByURL(context.Background(), "https://missing.com")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryBarcodeStore(t *testing.T) {
	t.Run("saves and finds by short link id", func(t *testing.T) {
		s := store.NewMemoryBarcodeStore()
		info := &barcode.Info{Path: "barcodes/ABCDE", ShortLinkID: 7}

		require.NoError(t, s.Save(context.Background(), info))
		assert.Equal(t, int64(1), info.ID)

		found, err := s.GetByShortLinkID(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, "barcodes/ABCDE", found.Path)
	})

	t.Run("returns ErrNotFound when absent", func(t *testing.T) {
		s := store.NewMemoryBarcodeStore()

		found, err := s.GetByShortLinkID(context.Background(), 7)

		assert.Nil(t, found)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("enforces one info per short link", func(t *testing.T) {
		s := store.NewMemoryBarcodeStore()
		require.NoError(t, s.Save(context.Background(), &barcode.Info{Path: "a", ShortLinkID: 7}))

		err := s.Save(context.Background(), &barcode.Info{Path: "b", ShortLinkID: 7})

		assert.ErrorIs(t, err, shortener.ErrConflict)
	})

	t.Run("enforces unique path", func(t *testing.T) {
		s := store.NewMemoryBarcodeStore()
		require.NoError(t, s.Save(context.Background(), &barcode.Info{Path: "a", ShortLinkID: 7}))

		err := s.Save(context.Background(), &barcode.Info{Path: "a", ShortLinkID: 8})

		assert.ErrorIs(t, err, shortener.ErrConflict)
	})

	t.Run("exists by path", func(t *testing.T) {
		s := store.NewMemoryBarcodeStore()
		require.NoError(t, s.Save(context.Background(), &barcode.Info{Path: "a", ShortLinkID: 7}))

		exists, err := s.ExistsByPath(context.Background(), "a")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.ExistsByPath(context.Background(), "b")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
