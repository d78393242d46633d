package in_memory

import (
	"context"
	"sync"

	"github.com/evapetschnigg/CDA/internal/domain"
	"github.com/evapetschnigg/CDA/internal/port"
)

var _ port.Cache = (*Cache)(nil)

type Cache struct {
	mu    sync.Mutex
	books map[string]*domain.PublishedBook
}

func NewCache() *Cache {
	return &Cache{books: make(map[string]*domain.PublishedBook)}
}

func (c *Cache) SetBook(_ context.Context, marketID string, book *domain.PublishedBook) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *book
	c.books[marketID] = &cp
	return nil
}

func (c *Cache) Book(_ context.Context, marketID string) (*domain.PublishedBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.books[marketID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}
