package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "v" {
		t.Fatalf("Get(k) = %q ok=%v err=%v", data, ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get after Delete hit")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	c := NewMemoryCache(2)
	defer c.Close()
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok, _ := c.Get(ctx, "c"); !ok {
		t.Error("newest entry was evicted")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry still readable")
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(0)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := c.Set(ctx, "k", nil, 0); err != ErrClosed {
		t.Errorf("Set on closed cache err = %v, want ErrClosed", err)
	}
	if _, _, err := c.Get(ctx, "k"); err != ErrClosed {
		t.Errorf("Get on closed cache err = %v, want ErrClosed", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "state:abc", []byte("payload"), 0); err != nil {
		t.Fatal(err)
	}
	data, ok, err := c.Get(ctx, "state:abc")
	if err != nil || !ok || string(data) != "payload" {
		t.Fatalf("Get = %q ok=%v err=%v", data, ok, err)
	}

	// A fresh cache over the same directory sees the entry.
	c2, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	data, ok, err = c2.Get(ctx, "state:abc")
	if err != nil || !ok || string(data) != "payload" {
		t.Fatalf("Get from reopened cache = %q ok=%v err=%v", data, ok, err)
	}

	if err := c2.Delete(ctx, "state:abc"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "state:abc"); ok {
		t.Error("entry survived delete")
	}
	// Deleting a missing key is not an error.
	if err := c2.Delete(ctx, "state:abc"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("null cache stored a value")
	}
}

func TestKeyerStability(t *testing.T) {
	k := NewDefaultKeyer()
	a := k.StateKey("0,0;1,0;", "n4:1-2;")
	b := k.StateKey("0,0;1,0;", "n4:1-2;")
	if a != b {
		t.Error("identical inputs produced different keys")
	}
	if !strings.HasPrefix(a, "state:") {
		t.Errorf("StateKey prefix = %q", a)
	}
	if c := k.StateKey("0,0;1,0;", "n4:1-3;"); c == a {
		t.Error("different signatures produced equal keys")
	}

	scoped := NewScopedKeyer(k, "lenient:")
	if got := scoped.StateKey("0,0;", "n3:"); !strings.HasPrefix(got, "lenient:state:") {
		t.Errorf("scoped key = %q", got)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("prost"))
	if len(h) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h))
	}
	if h == Hash([]byte("prost!")) {
		t.Error("distinct inputs share a hash")
	}
}
