package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/serroba/linkshorter/internal/barcode"
	"github.com/serroba/linkshorter/internal/shortener"
)

// MemoryBarcodeStore is an in-memory implementation of barcode.Repository.
type MemoryBarcodeStore struct {
	mu          sync.RWMutex
	nextID      int64
	byShortLink map[int64]*barcode.Info
	paths       map[string]struct{}
}

// NewMemoryBarcodeStore creates a new in-memory barcode info store.
func NewMemoryBarcodeStore() *MemoryBarcodeStore {
	return &MemoryBarcodeStore{
		byShortLink: make(map[int64]*barcode.Info),
		paths:       make(map[string]struct{}),
	}
}

func (m *MemoryBarcodeStore) GetByShortLinkID(_ context.Context, shortLinkID int64) (*barcode.Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.byShortLink[shortLinkID]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	found := *info

	return &found, nil
}

func (m *MemoryBarcodeStore) Save(_ context.Context, info *barcode.Info) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byShortLink[info.ShortLinkID]; ok {
		return fmt.Errorf("%w: short link %d", shortener.ErrConflict, info.ShortLinkID)
	}

	if _, ok := m.paths[info.Path]; ok {
		return fmt.Errorf("%w: path %s", shortener.ErrConflict, info.Path)
	}

	m.nextID++
	info.ID = m.nextID

	stored := *info
	m.byShortLink[info.ShortLinkID] = &stored
	m.paths[info.Path] = struct{}{}

	return nil
}

func (m *MemoryBarcodeStore) ExistsByPath(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.paths[path]

	return ok, nil
}

var _ barcode.Repository = (*MemoryBarcodeStore)(nil)
