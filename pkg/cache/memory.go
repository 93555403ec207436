package cache

import (
	"sync"
	"time"
)

// Entry 缓存条目，写入后不再修改
type Entry struct {
	Key      string
	Value    []byte
	StoredAt time.Time
}

// MemoryCache 进程内缓存
//
// 不做后台清理，过期条目在读取时删除，Clear 清空全部条目。
type MemoryCache struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]Entry
}

// NewMemoryCache 创建进程内缓存，clock 为 nil 时使用系统时钟
func NewMemoryCache(clock Clock) *MemoryCache {
	if clock == nil {
		clock = SystemClock
	}
	return &MemoryCache{
		clock:   clock,
		entries: make(map[string]Entry),
	}
}

// Get 读取未超过 ttl 的条目
func (m *MemoryCache) Get(key string, ttl time.Duration) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.clock.Now().Sub(entry.StoredAt) >= ttl {
		delete(m.entries, key)
		return nil, false
	}
	return entry.Value, true
}

// Set 写入条目，覆盖同键旧值
func (m *MemoryCache) Set(key string, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = Entry{Key: key, Value: stored, StoredAt: m.clock.Now()}
}

// Clear 清空全部条目，返回清除数量
func (m *MemoryCache) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = make(map[string]Entry)
	return n
}

// Len 当前条目数，包含尚未被读取淘汰的过期条目
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
