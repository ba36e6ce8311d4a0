package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store used by tests and local runs. Records are
// held as marshaled JSON so reads hand out copies, never aliases.
type Memory struct {
	mu      sync.Mutex
	records map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key Key, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memGet(m.records, key, dest)
}

func (m *Memory) Set(ctx context.Context, key Key, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSet(m.records, key, value)
}

func (m *Memory) Has(ctx context.Context, key Key) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[memKey(key)]
	return ok, nil
}

func (m *Memory) Remove(ctx context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, memKey(key))
	return nil
}

func (m *Memory) ListKeys(ctx context.Context, kind Kind) ([]Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := string(kind) + "\x00"
	var keys []Key
	for k := range m.records {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		id := strings.TrimPrefix(k, prefix)
		key := Key{Kind: kind}
		if id != "" {
			key.Parts = strings.Split(id, "\x1f")
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID() < keys[j].ID() })
	return keys, nil
}

// Atomic applies fn to a staged copy of the records under the store lock and
// swaps it in only when fn succeeds. The single lock also serializes whole
// operations against each other, matching the one-call-at-a-time host model.
func (m *Memory) Atomic(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make(map[string][]byte, len(m.records))
	for k, v := range m.records {
		staged[k] = v
	}
	if err := fn(&memoryTx{records: staged}); err != nil {
		return err
	}
	m.records = staged
	return nil
}

// memoryTx is the unlocked view handed to Atomic callbacks. It must only be
// used within the callback that received it.
type memoryTx struct {
	records map[string][]byte
}

func (t *memoryTx) Get(ctx context.Context, key Key, dest any) error {
	return memGet(t.records, key, dest)
}

func (t *memoryTx) Set(ctx context.Context, key Key, value any) error {
	return memSet(t.records, key, value)
}

func (t *memoryTx) Has(ctx context.Context, key Key) (bool, error) {
	_, ok := t.records[memKey(key)]
	return ok, nil
}

func (t *memoryTx) Remove(ctx context.Context, key Key) error {
	delete(t.records, memKey(key))
	return nil
}

func (t *memoryTx) ListKeys(ctx context.Context, kind Kind) ([]Key, error) {
	prefix := string(kind) + "\x00"
	var keys []Key
	for k := range t.records {
		if strings.HasPrefix(k, prefix) {
			id := strings.TrimPrefix(k, prefix)
			key := Key{Kind: kind}
			if id != "" {
				key.Parts = strings.Split(id, "\x1f")
			}
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID() < keys[j].ID() })
	return keys, nil
}

// Atomic on an already-staged view just runs fn; the outer Atomic owns the
// commit.
func (t *memoryTx) Atomic(ctx context.Context, fn func(Store) error) error {
	return fn(t)
}

func memKey(key Key) string {
	return string(key.Kind) + "\x00" + key.ID()
}

func memGet(records map[string][]byte, key Key, dest any) error {
	raw, ok := records[memKey(key)]
	if !ok {
		return ErrNoRecord
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s record: %w", key.Kind, err)
	}
	return nil
}

func memSet(records map[string][]byte, key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", key.Kind, err)
	}
	records[memKey(key)] = raw
	return nil
}
