package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Plan hooks
	p := NoopPlanHooks{}
	p.OnRegionStart(ctx, "tx/travis/acme", 12)
	p.OnRegionComplete(ctx, "tx/travis/acme", 2, time.Second, nil)
	p.OnRunComplete(ctx, "run-1", 3, 40, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "region")
	c.OnCacheMiss(ctx, "graph")
	c.OnCacheSet(ctx, "region", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Plan().(NoopPlanHooks); !ok {
		t.Error("Plan() should return NoopPlanHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customPlan := &testPlanHooks{}
	SetPlanHooks(customPlan)
	if Plan() != customPlan {
		t.Error("SetPlanHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Plan().(NoopPlanHooks); !ok {
		t.Error("Reset() should restore NoopPlanHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPlanHooks{}
	SetPlanHooks(custom)

	// Setting nil should be ignored
	SetPlanHooks(nil)

	if Plan() != custom {
		t.Error("SetPlanHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPlanHooks struct{ NoopPlanHooks }
type testCacheHooks struct{ NoopCacheHooks }
