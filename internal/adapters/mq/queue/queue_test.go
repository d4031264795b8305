package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Test enqueue
	job1 := Job{VolunteerID: "volunteer-001", EnqueuedAt: time.Now()}
	if !q.Enqueue(ctx, job1) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test dequeue
	jobChan := q.Dequeue(ctx)
	job := <-jobChan
	if job.VolunteerID != "volunteer-001" {
		t.Errorf("expected volunteer-001, got %v", job.VolunteerID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_CapacityLimit(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, Job{VolunteerID: "volunteer-001"}) {
		t.Error("expected first enqueue to succeed")
	}
	if !q.Enqueue(ctx, Job{VolunteerID: "volunteer-002"}) {
		t.Error("expected second enqueue to succeed")
	}

	// Queue is full now
	if q.Enqueue(ctx, Job{VolunteerID: "volunteer-003"}) {
		t.Error("expected enqueue beyond capacity to fail")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if q.IsClosed() {
		t.Error("expected new queue to be open")
	}

	if !q.Enqueue(ctx, Job{VolunteerID: "volunteer-001"}) {
		t.Error("expected enqueue to succeed")
	}

	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}

	// Closing twice is fine
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error on repeat close: %v", err)
	}

	// No enqueue after close
	if q.Enqueue(ctx, Job{VolunteerID: "volunteer-002"}) {
		t.Error("expected enqueue after close to fail")
	}

	// Buffered jobs drain, then the channel closes
	jobChan := q.Dequeue(ctx)
	job, ok := <-jobChan
	if !ok {
		t.Fatal("expected buffered job before close")
	}
	if job.VolunteerID != "volunteer-001" {
		t.Errorf("expected volunteer-001, got %v", job.VolunteerID)
	}
	if _, ok := <-jobChan; ok {
		t.Error("expected dequeue channel to close after drain")
	}
}

func TestInMemoryQueue_DonePassthrough(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	done := make(chan Result, 1)
	if !q.Enqueue(ctx, Job{VolunteerID: "volunteer-001", Done: done}) {
		t.Fatal("expected enqueue to succeed")
	}

	job := <-q.Dequeue(ctx)
	if job.Done == nil {
		t.Fatal("expected job to carry its done channel")
	}
	job.Done <- Result{VolunteerID: job.VolunteerID, Matches: 2}

	res := <-done
	if res.VolunteerID != "volunteer-001" || res.Matches != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestInMemoryQueue_DequeueContextCancel(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())

	jobChan := q.Dequeue(ctx)
	cancel()

	select {
	case _, ok := <-jobChan:
		if ok {
			t.Error("expected no delivery from an empty queue after cancel")
		}
	case <-time.After(time.Second):
		t.Error("expected dequeue channel to close after cancel")
	}
}

func TestInMemoryQueue_ConcurrentEnqueue(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()

	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				q.Enqueue(ctx, Job{VolunteerID: fmt.Sprintf("volunteer-%d-%d", g, i)})
			}
		}(g)
	}
	wg.Wait()

	if l := q.Len(ctx); l != goroutines*perGoroutine {
		t.Errorf("expected %d queued jobs, got %d", goroutines*perGoroutine, l)
	}
}
