package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func openBackends(t *testing.T) map[string]Cache {
	t.Helper()
	dir := t.TempDir()

	fc, err := NewFileCache(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	bc, err := NewBoltCache(filepath.Join(dir, "bolt", "cache.db"))
	if err != nil {
		t.Fatalf("NewBoltCache: %v", err)
	}
	t.Cleanup(func() {
		fc.Close()
		bc.Close()
	})
	return map[string]Cache{"file": fc, "bolt": bc}
}

func TestBackends(t *testing.T) {
	ctx := context.Background()

	for name, c := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
				t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
			}

			if err := c.Set(ctx, "k", []byte("payload"), time.Hour); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			data, hit, err := c.Get(ctx, "k")
			if err != nil || !hit {
				t.Fatalf("Get(k) = hit %v, err %v", hit, err)
			}
			if !bytes.Equal(data, []byte("payload")) {
				t.Errorf("Get(k) = %q, want payload", data)
			}

			// No ttl means no expiry.
			if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "forever"); !hit {
				t.Error("entry without ttl should not expire")
			}

			if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			time.Sleep(5 * time.Millisecond)
			if _, hit, _ := c.Get(ctx, "short"); hit {
				t.Error("expired entry should be a miss")
			}

			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete error: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Error("deleted entry should be a miss")
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete of missing key should succeed: %v", err)
			}
		})
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "a", []byte("1"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Clear should remove entries")
	}
	if err := c.Set(ctx, "b", []byte("2"), 0); err != nil {
		t.Errorf("Set after Clear: %v", err)
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "live", []byte("1"), time.Hour)
	_ = c.Set(ctx, "forever", []byte("2"), 0)
	_ = c.Set(ctx, "stale", []byte("3"), time.Millisecond)
	if err := os.MkdirAll(filepath.Dir(c.path("broken")), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("broken"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	n, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if n != 2 {
		t.Errorf("Prune removed %d entries, want 2", n)
	}
	for _, key := range []string{"live", "forever"} {
		if _, hit, _ := c.Get(ctx, key); !hit {
			t.Errorf("Prune removed %q", key)
		}
	}
}

func TestFileCacheKeyMismatch(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "a", []byte("1"), 0)
	if err := os.MkdirAll(filepath.Dir(c.path("b")), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(c.path("a"), c.path("b")); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("entry stored under another key should read as a miss")
	}
}

func TestBoltCacheReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := NewBoltCache(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "k", []byte("kept"), 0)
	c.Close()

	c, err = NewBoltCache(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	data, hit, _ := c.Get(ctx, "k")
	if !hit || string(data) != "kept" {
		t.Errorf("Get after reopen = %q, %v", data, hit)
	}
}

func TestRedisOptions(t *testing.T) {
	c, err := newRedisCache(RedisOptions{URL: "redis://localhost:6379/2", Prefix: "dt:"})
	if err != nil {
		t.Fatalf("newRedisCache: %v", err)
	}
	defer c.Close()
	if got := c.client.Options().DB; got != 2 {
		t.Errorf("DB = %d, want 2", got)
	}
	if c.prefix != "dt:" {
		t.Errorf("prefix = %q", c.prefix)
	}

	if _, err := newRedisCache(RedisOptions{URL: "http://nope"}); err == nil {
		t.Error("non-redis url should fail")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tk1 := k.TableKey(TableKeyOpts{Driver: "sqlite", DSN: "a.db", Query: "SELECT 1"})
	tk2 := k.TableKey(TableKeyOpts{Driver: "sqlite", DSN: "b.db", Query: "SELECT 1"})
	if tk1 == tk2 {
		t.Error("Different TableKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(tk1, "table:") {
		t.Errorf("TableKey prefix unexpected: %s", tk1)
	}

	lk1 := k.LayoutKey("abc", LayoutKeyOpts{SettingsHash: "s", Expand: [][]string{{"b"}, {"a"}}})
	lk2 := k.LayoutKey("abc", LayoutKeyOpts{SettingsHash: "s", Expand: [][]string{{"a"}, {"b"}}})
	if lk1 == lk2 {
		t.Error("Expand order should change the layout key")
	}
	lk3 := k.LayoutKey("abc", LayoutKeyOpts{SettingsHash: "s", ExpandAll: true})
	if lk1 == lk3 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	want := "user:123:" + inner.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}); got != want {
		t.Errorf("ScopedKeyer ArtifactKey = %s, want %s", got, want)
	}

	key := scoped.TableKey(TableKeyOpts{})
	if !strings.HasPrefix(key, "user:123:table:") {
		t.Errorf("ScopedKeyer TableKey should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("h", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "prefix:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFingerprintHash(t *testing.T) {
	if got := FingerprintHash(0xff); got != "00000000000000ff" {
		t.Errorf("FingerprintHash = %s", got)
	}
}

var errPermanent = errors.New("permanent")

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if IsRetryable(classify(errPermanent)) {
		t.Error("plain errors should not be retryable")
	}
	nerr := &timeoutError{}
	err := classify(nerr)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("network error should be retryable ErrNetwork: %v", err)
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffGivesUp(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
	if calls != retryAttempts {
		t.Errorf("calls = %d, want %d", calls, retryAttempts)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
