package cache

import (
	"testing"
	"time"
)

func TestPageKey(t *testing.T) {
	a := PageKey("https://example.com/a")
	b := PageKey("https://example.com/b")
	if a == b {
		t.Fatal("distinct URLs must map to distinct keys")
	}
	if a != PageKey("https://example.com/a") {
		t.Fatal("key derivation must be stable")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory(time.Minute)
	if _, ok := m.Get("missing"); ok {
		t.Fatal("unexpected hit")
	}
	m.Set("k", []byte("page"), time.Minute)
	v, ok := m.Get("k")
	if !ok || string(v) != "page" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
}

func TestDiskExpiry(t *testing.T) {
	d := NewDisk(t.TempDir())
	d.Set("fresh", []byte("x"), time.Minute)
	d.Set("stale", []byte("y"), -time.Second)

	if _, ok := d.Get("fresh"); !ok {
		t.Fatal("fresh entry should hit")
	}
	if _, ok := d.Get("stale"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestLayeredPromotesDiskHits(t *testing.T) {
	l := NewLayered(time.Minute, t.TempDir())
	l.disk.Set("k", []byte("page"), time.Minute)

	if _, ok := l.memory.Get("k"); ok {
		t.Fatal("memory should start cold")
	}
	if v, ok := l.Get("k"); !ok || string(v) != "page" {
		t.Fatalf("layered Get = %q, %v", v, ok)
	}
	if _, ok := l.memory.Get("k"); !ok {
		t.Fatal("disk hit should be promoted to memory")
	}
}
