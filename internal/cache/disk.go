package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Disk persists cached pages as files, surviving across runs of the
// watch scheduler.
type Disk struct {
	dir string
}

// NewDisk creates a disk cache rooted at dir.
func NewDisk(dir string) *Disk {
	return &Disk{dir: dir}
}

type diskEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (d *Disk) Get(key string) ([]byte, bool) {
	raw, err := os.ReadFile(d.path(key))
	if err != nil {
		return nil, false
	}
	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(d.path(key))
		return nil, false
	}
	return entry.Data, true
}

func (d *Disk) Set(key string, value []byte, ttl time.Duration) {
	entry := diskEntry{Data: value, ExpiresAt: time.Now().Add(ttl)}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(d.path(key), raw, 0o644)
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, key+".cache")
}
