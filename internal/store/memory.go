package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/serroba/linkshorter/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	byToken map[shortener.Token]*shortener.ShortLink
	byURL   map[string]shortener.Token
}

// NewMemoryStore creates a new in-memory short link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken: make(map[shortener.Token]*shortener.ShortLink),
		byURL:   make(map[string]shortener.Token),
	}
}

// Save assigns the link its ID. Tokens and URLs are unique.
func (m *MemoryStore) Save(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byToken[link.Token]; ok {
		return fmt.Errorf("%w: token %s", shortener.ErrConflict, link.Token)
	}

	if _, ok := m.byURL[link.URL]; ok {
		return fmt.Errorf("%w: url %s", shortener.ErrConflict, link.URL)
	}

	m.nextID++
	link.ID = m.nextID

	stored := *link
	m.byToken[link.Token] = &stored
	m.byURL[link.URL] = link.Token

	return nil
}

func (m *MemoryStore) GetByToken(_ context.Context, token shortener.Token) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.byToken[token]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	found := *link

	return &found, nil
}

func (m *MemoryStore) GetByURL(_ context.Context, url string) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.byURL[url]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	found := *m.byToken[token]

	return &found, nil
}

func (m *MemoryStore) ExistsByToken(_ context.Context, token shortener.Token) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byToken[token]

	return ok, nil
}

var _ shortener.Repository = (*MemoryStore)(nil)
