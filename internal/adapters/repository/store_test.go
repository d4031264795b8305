package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/volunteerhub/matchd/internal/domain/distcache"
	"github.com/volunteerhub/matchd/internal/domain/model"
)

func testEntry(subject, target string, miles float64) distcache.Entry {
	return distcache.Entry{
		SubjectID:  subject,
		TargetID:   target,
		Key:        distcache.Key(subject, target),
		Result:     model.DistanceResult{Origin: subject, Destination: target, Miles: miles},
		ComputedAt: time.Now().UTC(),
	}
}

func TestMemStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if n := store.Len(ctx); n != 0 {
		t.Errorf("expected empty store, got %d rows", n)
	}

	if err := store.Save(ctx, "v1|e1", testEntry("v1", "e1", 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok, err := store.Load(ctx, "v1|e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected to find stored entry")
	}
	if entry.Result.Miles != 10 {
		t.Errorf("expected 10 miles, got %f", entry.Result.Miles)
	}

	// Upsert replaces rather than duplicates.
	if err := store.Save(ctx, "v1|e1", testEntry("v1", "e1", 20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := store.Len(ctx); n != 1 {
		t.Errorf("expected 1 row after upsert, got %d", n)
	}
	entry, _, _ = store.Load(ctx, "v1|e1")
	if entry.Result.Miles != 20 {
		t.Errorf("expected upserted row with 20 miles, got %f", entry.Result.Miles)
	}

	if err := store.Save(ctx, "v1|e2", testEntry("v1", "e2", 30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 rows in snapshot, got %d", len(entries))
	}

	if err := store.Remove(ctx, "v1|e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "v1|e1"); ok {
		t.Error("expected removed entry to be gone")
	}
	if n := store.Len(ctx); n != 1 {
		t.Errorf("expected 1 row after remove, got %d", n)
	}

	// Removing an unknown key is not an error.
	if err := store.Remove(ctx, "missing"); err != nil {
		t.Errorf("unexpected error removing unknown key: %v", err)
	}

	if err := store.Close(ctx); err != nil {
		t.Errorf("unexpected error on close: %v", err)
	}
}

func TestMemStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				key := fmt.Sprintf("v%d|e%d", g, i)
				_ = store.Save(ctx, key, testEntry(fmt.Sprintf("v%d", g), fmt.Sprintf("e%d", i), float64(i)))
				_, _, _ = store.Load(ctx, key)
			}
		}(g)
	}
	wg.Wait()

	if n := store.Len(ctx); n != goroutines*perGoroutine {
		t.Errorf("expected %d rows, got %d", goroutines*perGoroutine, n)
	}
}

func TestTTLStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTTLStore(ctx, WithTTL(time.Hour))
	defer func() { _ = store.Close(ctx) }()

	if n := store.Len(ctx); n != 0 {
		t.Errorf("expected empty store, got %d rows", n)
	}

	if err := store.Save(ctx, "v1|e1", testEntry("v1", "e1", 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok, err := store.Load(ctx, "v1|e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected to find stored entry")
	}
	if entry.SubjectID != "v1" || entry.TargetID != "e1" {
		t.Errorf("unexpected entry identity: %s/%s", entry.SubjectID, entry.TargetID)
	}

	if err := store.Save(ctx, "v1|e1", testEntry("v1", "e1", 20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := store.Len(ctx); n != 1 {
		t.Errorf("expected 1 row after upsert, got %d", n)
	}

	if err := store.Save(ctx, "v2|e1", testEntry("v2", "e1", 30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 rows in snapshot, got %d", len(entries))
	}

	if err := store.Remove(ctx, "v1|e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "v1|e1"); ok {
		t.Error("expected removed entry to be gone")
	}
}

func TestTTLStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewTTLStore(ctx, WithTTL(25*time.Millisecond))
	defer func() { _ = store.Close(ctx) }()

	if err := store.Save(ctx, "v1|e1", testEntry("v1", "e1", 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "v1|e1"); !ok {
		t.Fatal("expected fresh entry to be found")
	}

	time.Sleep(200 * time.Millisecond)

	if _, ok, _ := store.Load(ctx, "v1|e1"); ok {
		t.Error("expected entry to expire")
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no live rows after expiry, got %d", len(entries))
	}
}

func TestTTLStore_Capacity(t *testing.T) {
	ctx := context.Background()
	store := NewTTLStore(ctx, WithTTL(time.Hour), WithCapacity(2))
	defer func() { _ = store.Close(ctx) }()

	for i := 1; i <= 3; i++ {
		key := fmt.Sprintf("v1|e%d", i)
		if err := store.Save(ctx, key, testEntry("v1", fmt.Sprintf("e%d", i), float64(i))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if n := store.Len(ctx); n != 2 {
		t.Errorf("expected capacity to hold at 2 rows, got %d", n)
	}
	if _, ok, _ := store.Load(ctx, "v1|e3"); !ok {
		t.Error("expected the newest row to survive capacity eviction")
	}
}

func TestTTLStore_Close(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewTTLStore(ctx)

	if err := store.Close(ctx); err != nil {
		t.Errorf("unexpected error on close: %v", err)
	}
	// A second close and a cancelled parent context must both be safe.
	if err := store.Close(ctx); err != nil {
		t.Errorf("unexpected error on repeat close: %v", err)
	}
	cancel()

	if err := store.Save(context.Background(), "v1|e1", testEntry("v1", "e1", 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.Load(context.Background(), "v1|e1"); !ok {
		t.Error("expected store reads to keep working after close")
	}
}
