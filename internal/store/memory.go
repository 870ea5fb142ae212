package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process Store. Values are held JSON-encoded so callers get
// the same copy and decoding semantics as the SQLite backend. Writes are
// staged on a copy of the map and swapped in on commit.
type Memory struct {
	mu     sync.Mutex
	data   map[string][]byte
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Transaction implements Store.
func (m *Memory) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	staged := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		staged[k] = v
	}
	if err := fn(&memoryTx{data: staged}); err != nil {
		return err
	}
	m.data = staged
	return nil
}

// Close marks the store closed. Data is retained so a test can inspect it.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

type memoryTx struct {
	data map[string][]byte
}

func (t *memoryTx) Fetch(key string, dst any) (bool, error) {
	raw, ok := t.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("store: decode %q: %w", key, err)
	}
	return true, nil
}

func (t *memoryTx) Put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}
	t.data[key] = data
	return nil
}

func (t *memoryTx) Delete(key string) error {
	delete(t.data, key)
	return nil
}

func (t *memoryTx) Roots() ([]string, error) {
	keys := make([]string, 0, len(t.data))
	for k := range t.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
