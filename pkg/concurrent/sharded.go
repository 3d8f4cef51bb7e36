package concurrent

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const defaultShardCount = 16

// ShardedMap is a string-keyed map split across xxhash-addressed shards so
// that writers on unrelated keys rarely contend on the same lock.
type ShardedMap[V any] struct {
	shards []mapShard[V]
	count  uint64
}

type mapShard[V any] struct {
	mx    sync.RWMutex
	items map[string]V
}

// NewShardedMap creates a ShardedMap with the given number of shards.
func NewShardedMap[V any](shardCount int) *ShardedMap[V] {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}

	m := &ShardedMap[V]{
		shards: make([]mapShard[V], shardCount),
		count:  uint64(shardCount),
	}
	for i := range m.shards {
		m.shards[i].items = make(map[string]V)
	}
	return m
}

func (m *ShardedMap[V]) shardFor(key string) *mapShard[V] {
	return &m.shards[xxhash.Sum64String(key)%m.count]
}

// Get returns the value stored under key.
func (m *ShardedMap[V]) Get(key string) (V, bool) {
	sh := m.shardFor(key)
	sh.mx.RLock()
	defer sh.mx.RUnlock()

	v, ok := sh.items[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (m *ShardedMap[V]) Set(key string, value V) {
	sh := m.shardFor(key)
	sh.mx.Lock()
	sh.items[key] = value
	sh.mx.Unlock()
}

// Delete removes key and reports whether it was present.
func (m *ShardedMap[V]) Delete(key string) bool {
	sh := m.shardFor(key)
	sh.mx.Lock()
	defer sh.mx.Unlock()

	if _, ok := sh.items[key]; !ok {
		return false
	}
	delete(sh.items, key)
	return true
}

// Update atomically replaces the value under key. The callback receives the
// current value (and whether it exists) and returns the new value plus a
// keep flag; returning false deletes the key.
func (m *ShardedMap[V]) Update(key string, fn func(current V, ok bool) (V, bool)) {
	sh := m.shardFor(key)
	sh.mx.Lock()
	defer sh.mx.Unlock()

	current, ok := sh.items[key]
	next, keep := fn(current, ok)
	if keep {
		sh.items[key] = next
	} else {
		delete(sh.items, key)
	}
}

// Len returns the total number of keys across all shards.
func (m *ShardedMap[V]) Len() int {
	total := 0
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mx.RLock()
		total += len(sh.items)
		sh.mx.RUnlock()
	}
	return total
}

// Range calls fn for every entry until fn returns false. Entries added or
// removed during iteration may or may not be visited.
func (m *ShardedMap[V]) Range(fn func(key string, value V) bool) {
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mx.RLock()
		for k, v := range sh.items {
			if !fn(k, v) {
				sh.mx.RUnlock()
				return
			}
		}
		sh.mx.RUnlock()
	}
}

// Clear removes every entry.
func (m *ShardedMap[V]) Clear() {
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mx.Lock()
		sh.items = make(map[string]V)
		sh.mx.Unlock()
	}
}
