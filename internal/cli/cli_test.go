package cli

import (
	"context"
	"io"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"allocate":   false,
		"graph":      false,
		"regions":    false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)

	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestNewCacheBackends(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	// noCache always wins.
	store, err := c.newCache(ctx, &Config{Cache: CacheConfig{Backend: CacheBackendFile}}, true)
	if err != nil {
		t.Fatalf("newCache(noCache) failed: %v", err)
	}
	defer store.Close()

	// "none" disables caching without error.
	store2, err := c.newCache(ctx, &Config{Cache: CacheConfig{Backend: CacheBackendNone}}, false)
	if err != nil {
		t.Fatalf("newCache(none) failed: %v", err)
	}
	defer store2.Close()

	// Unknown backends fail.
	if _, err := c.newCache(ctx, &Config{Cache: CacheConfig{Backend: "bogus"}}, false); err == nil {
		t.Error("newCache() should reject unknown backends")
	}
}
