package caching

import (
	"os"
	"testing"
	"time"
)

func TestPageCache_PutGet(t *testing.T) {
	c, err := NewPageCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewPageCache() error = %v", err)
	}

	if _, ok := c.Get("https://example.com/a"); ok {
		t.Fatal("Get() on empty cache reported a hit")
	}
	if err := c.Put("https://example.com/a", []byte("<html>a</html>")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := c.Get("https://example.com/a")
	if !ok {
		t.Fatal("Get() after Put() reported a miss")
	}
	if string(got) != "<html>a</html>" {
		t.Errorf("Get() = %q", got)
	}
	if _, ok := c.Get("https://example.com/b"); ok {
		t.Error("Get() hit for a different URL")
	}
}

func TestPageCache_Expiry(t *testing.T) {
	c, err := NewPageCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewPageCache() error = %v", err)
	}
	if err := c.Put("u1", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("u2", []byte("two")); err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-2 * time.Minute)
	if err := os.Chtimes(c.file("u1"), old, old); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("u1"); ok {
		t.Error("Get() returned an expired page")
	}
	removed, err := c.Purge()
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Purge() removed %d, want 1", removed)
	}
	if _, ok := c.Get("u2"); !ok {
		t.Error("fresh page was purged")
	}
}

func TestPageCache_ZeroTTLDisabled(t *testing.T) {
	dir := t.TempDir()
	c, err := NewPageCache(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("u", []byte("x")); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("disabled cache wrote %d files", len(entries))
	}
	if _, ok := c.Get("u"); ok {
		t.Error("disabled cache reported a hit")
	}
}
