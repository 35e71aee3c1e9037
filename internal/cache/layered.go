package cache

import "time"

// Layered checks memory first, then disk, promoting disk hits.
type Layered struct {
	memory Cache
	disk   Cache
}

// NewLayered builds the standard memory+disk page cache.
func NewLayered(memoryTTL time.Duration, diskDir string) *Layered {
	return &Layered{
		memory: NewMemory(memoryTTL),
		disk:   NewDisk(diskDir),
	}
}

func (l *Layered) Get(key string) ([]byte, bool) {
	if v, ok := l.memory.Get(key); ok {
		return v, true
	}
	if v, ok := l.disk.Get(key); ok {
		l.memory.Set(key, v, 0)
		return v, true
	}
	return nil, false
}

func (l *Layered) Set(key string, value []byte, ttl time.Duration) {
	l.memory.Set(key, value, ttl)
	l.disk.Set(key, value, ttl)
}
