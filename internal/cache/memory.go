package cache

import (
	"context"
	"sync"
	"time"
)

// entry stores one cached value with its expiry.
type entry struct {
	expiresAt time.Time
	value     []byte
}

// Memory is an in-process Store with per-key expiry. It is not shared
// across processes; use it when no Redis is available or in tests.
type Memory struct {
	// MaxItems caps the number of keys; 0 means unbounded.
	MaxItems int

	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory(maxItems int) *Memory {
	return &Memory{MaxItems: maxItems, items: make(map[string]entry), now: time.Now}
}

func (m *Memory) lookup(key string) (entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.items[key]
	if !ok || !m.clock().Before(e.expiresAt) {
		return entry{}, false
	}
	return e, true
}

func (m *Memory) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.lookup(key)
	return ok, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.lookup(key)
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

func (m *Memory) SetWithExpiry(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	now := m.clock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string]entry)
	}
	m.items[key] = entry{expiresAt: now.Add(ttl), value: v}

	// best-effort cap: drop expired keys first, then arbitrary ones
	if m.MaxItems > 0 && len(m.items) > m.MaxItems {
		for k, e := range m.items {
			if !now.Before(e.expiresAt) {
				delete(m.items, k)
			}
		}
		for k := range m.items {
			if len(m.items) <= m.MaxItems {
				break
			}
			if k != key {
				delete(m.items, k)
			}
		}
	}
	return nil
}

func (m *Memory) Close() error { return nil }
