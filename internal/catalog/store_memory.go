package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu         sync.RWMutex
	m          map[string]Product
	categories []Category
}

// NewMemStore returns a store holding the embedded mock catalog.
func NewMemStore() (*MemStore, error) {
	cats, products, err := LoadSeed()
	if err != nil {
		return nil, err
	}
	return NewMemStoreWith(cats, products), nil
}

func NewMemStoreWith(categories []Category, products []Product) *MemStore {
	s := &MemStore{
		m:          make(map[string]Product, len(products)),
		categories: append([]Category(nil), categories...),
	}
	for _, p := range products {
		s.m[p.ID] = p
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListSortedByID(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.m[id]; ok {
		return p, true, nil
	}
	for _, p := range s.m {
		if p.Slug != "" && p.Slug == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

func (s *MemStore) Categories(ctx context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category(nil), s.categories...), nil
}
