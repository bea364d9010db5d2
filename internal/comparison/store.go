package comparison

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var ErrInvalidProduct = errors.New("comparison: product id required")

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// AddResult reports what Add did. Evicted is set when the set was full and
// its oldest entry made room for the new one.
type AddResult struct {
	Added   bool
	Evicted *Product
}

// Store is a bounded, insertion-ordered set of product snapshots persisted
// under a single storage key. Every mutation writes the whole set; when the
// write fails the in-memory set is left as it was.
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	log     *zap.Logger
	metrics *Metrics
	items   []Product
}

// Open loads the set saved under key. A missing key gives an empty set, and
// so does unreadable data, which is logged and dropped. Other storage errors
// are returned.
func Open(ctx context.Context, storage Storage, key string, opts ...Option) (*Store, error) {
	s := &Store{
		key:     key,
		storage: storage,
		log:     zap.NewNop(),
		items:   []Product{},
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := storage.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open comparison %s: %w", key, err)
	}

	items, dropped, err := decode(raw)
	if err != nil {
		s.log.Warn("discarding unreadable comparison set", zap.String("key", key), zap.Error(err))
		s.metrics.loadFailed()
		return s, nil
	}
	if dropped > 0 {
		s.log.Warn("normalized stored comparison set", zap.String("key", key), zap.Int("dropped", dropped))
	}
	s.items = items
	return s, nil
}

func (s *Store) Key() string { return s.key }

func (s *Store) Add(ctx context.Context, p Product) (AddResult, error) {
	if strings.TrimSpace(p.ID) == "" {
		return AddResult{}, ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID) >= 0 {
		return AddResult{}, nil
	}

	kept := s.items
	var evicted *Product
	if len(kept) >= MaxItems {
		oldest := kept[0].clone()
		evicted = &oldest
		kept = kept[len(kept)-MaxItems+1:]
	}

	next := make([]Product, 0, MaxItems)
	next = append(next, kept...)
	next = append(next, p.clone())

	if err := s.commit(ctx, next); err != nil {
		return AddResult{}, err
	}

	s.metrics.added(evicted != nil)
	return AddResult{Added: true, Evicted: evicted}, nil
}

// Remove reports whether id was present. Removing an absent id does not
// touch storage.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]Product, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)

	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, []Product{})
}

func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) CanAddMore() bool {
	return s.Count() < MaxItems
}

// Items returns copies of the snapshots, oldest first.
func (s *Store) Items() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Product, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p.clone())
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i, p := range s.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// commit must be called with s.mu held.
func (s *Store) commit(ctx context.Context, next []Product) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode comparison %s: %w", s.key, err)
	}
	if err := s.storage.Save(ctx, s.key, raw); err != nil {
		s.metrics.saveFailed()
		return fmt.Errorf("save comparison %s: %w", s.key, err)
	}
	s.items = next
	return nil
}

// decode parses a stored set. Entries without an id, repeated ids and
// anything beyond the newest MaxItems are dropped and counted.
func decode(raw []byte) ([]Product, int, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []Product{}, 0, nil
	}

	var stored []Product
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, 0, err
	}

	seen := make(map[string]struct{}, len(stored))
	items := make([]Product, 0, len(stored))
	for _, p := range stored {
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		items = append(items, p)
	}
	if len(items) > MaxItems {
		items = items[len(items)-MaxItems:]
	}

	return items, len(stored) - len(items), nil
}
