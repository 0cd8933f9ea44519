package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rushteam/tagrec/core"
)

// MemoryStore 是内存实现的 Store，用于测试/单次运行。
// 支持 TTL（过期时间），但进程退出后数据丢失。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry

	clean *time.Ticker
	stop  chan struct{}
	once  sync.Once
}

type entry struct {
	value  []byte
	expire time.Time
}

func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		data:  make(map[string]entry),
		clean: time.NewTicker(10 * time.Second),
		stop:  make(chan struct{}),
	}
	go ms.cleanup()
	return ms
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok || expired(e.expire, time.Now()) {
		return nil, core.ErrStoreNotFound
	}
	return slices.Clone(e.value), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = entry{value: slices.Clone(value), expire: expiresAt(ttl)}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]byte, len(keys))
	now := time.Now()
	for _, k := range keys {
		e, ok := m.data[k]
		if !ok || expired(e.expire, now) {
			continue
		}
		result[k] = slices.Clone(e.value)
	}
	return result, nil
}

func (m *MemoryStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expire := expiresAt(ttl)
	for k, v := range kvs {
		m.data[k] = entry{value: slices.Clone(v), expire: expire}
	}
	return nil
}

func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		m.clean.Stop()
		close(m.stop)
	})
	return nil
}

func (m *MemoryStore) cleanup() {
	for {
		select {
		case <-m.stop:
			return
		case now := <-m.clean.C:
			m.mu.Lock()
			for k, e := range m.data {
				if expired(e.expire, now) {
					delete(m.data, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

var _ core.Store = (*MemoryStore)(nil)
