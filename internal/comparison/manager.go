package comparison

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const (
	keyPrefix   = "comparison:"
	lockStripes = 64
)

// Manager hands out per-visitor stores. It keeps nothing in memory between
// calls: each call loads the visitor's set fresh, so several catalog
// replicas can share one storage.
type Manager struct {
	storage Storage
	opts    []Option
	locks   [lockStripes]sync.Mutex
}

func NewManager(storage Storage, opts ...Option) *Manager {
	return &Manager{storage: storage, opts: opts}
}

func Key(visitorID string) string {
	return keyPrefix + visitorID
}

// With runs fn on the visitor's comparison set. Calls for the same visitor
// are serialized within this process; concurrent writers in other processes
// are not reconciled.
func (m *Manager) With(ctx context.Context, visitorID string, fn func(*Store) error) error {
	key := Key(visitorID)

	mu := &m.locks[stripe(key)]
	mu.Lock()
	defer mu.Unlock()

	s, err := Open(ctx, m.storage, key, m.opts...)
	if err != nil {
		return err
	}
	return fn(s)
}

func stripe(key string) uint64 {
	return xxhash.Sum64String(key) % lockStripes
}

// Ping checks the storage when it supports it.
func (m *Manager) Ping(ctx context.Context) error {
	if p, ok := m.storage.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
