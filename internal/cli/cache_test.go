package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/drilltree/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", xdg)

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(xdg, "drilltree"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", "drilltree"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(os.Stderr, LogInfo)
	ctx := context.Background()

	tests := []struct {
		kind    string
		check   func(cache.Cache) bool
		wantErr bool
	}{
		{cacheNone, func(ch cache.Cache) bool { _, ok := ch.(*cache.NullCache); return ok }, false},
		{cacheFile, func(ch cache.Cache) bool { _, ok := ch.(*cache.FileCache); return ok }, false},
		{cacheBolt, func(ch cache.Cache) bool { _, ok := ch.(*cache.BoltCache); return ok }, false},
		{"memcached", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			ch, err := c.newCache(ctx, tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newCache(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer ch.Close()
			if !tt.check(ch) {
				t.Errorf("newCache(%q) = %T", tt.kind, ch)
			}
		})
	}
}

func TestRunCacheClear(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	if err := runCacheClear(); err != nil {
		t.Fatalf("clear on missing dir: %v", err)
	}

	dir := filepath.Join(xdg, "drilltree")
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "k", []byte("v"), cache.TTLTable); err != nil {
		t.Fatal(err)
	}

	if err := runCacheClear(); err != nil {
		t.Fatalf("runCacheClear() error: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "k"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestRunCachePrune(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	fc, err := cache.NewFileCache(filepath.Join(xdg, "drilltree"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	_ = fc.Set(ctx, "keep", []byte("v"), cache.TTLTable)
	_ = fc.Set(ctx, "old", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if err := runCachePrune(ctx); err != nil {
		t.Fatalf("runCachePrune() error: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "keep"); !ok {
		t.Error("live entry removed by prune")
	}
}
