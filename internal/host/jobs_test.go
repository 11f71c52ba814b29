package host

import (
	"testing"

	"github.com/conneroisu/esvm/internal/gc"
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/result"
)

func TestQueuePushPopIsFIFO(t *testing.T) {
	q := NewQueue()
	var order []string
	q.Push(Job{Name: "a", Run: func() result.JsResult[heap.Value] { return result.Return(heap.Undefined()) }})
	q.Push(Job{Name: "b", Run: func() result.JsResult[heap.Value] { return result.Return(heap.Undefined()) }})

	for {
		job, ok := q.Pop()
		if !ok {
			break
		}
		order = append(order, job.Name)
	}

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("Pop order = %v, want [a b]", order)
	}
}

func TestDrainAllRunsQueuedJobsAndStopsOnException(t *testing.T) {
	q := NewQueue()
	ran := 0
	q.Push(Job{Run: func() result.JsResult[heap.Value] {
		ran++

		return result.Return(heap.Undefined())
	}})
	q.Push(Job{Run: func() result.JsResult[heap.Value] {
		ran++

		return result.Exception[heap.Value](heap.Undefined())
	}})
	q.Push(Job{Run: func() result.JsResult[heap.Value] {
		ran++

		return result.Return(heap.Undefined())
	}})

	r := q.DrainAll()
	if !r.IsException() {
		t.Fatalf("expected DrainAll to surface the exception")
	}
	if ran != 2 {
		t.Fatalf("expected draining to stop after the exception, ran = %d", ran)
	}
}

func TestDrainAllowsJobsEnqueuedDuringDraining(t *testing.T) {
	q := NewQueue()
	seen := 0
	q.Push(Job{Run: func() result.JsResult[heap.Value] {
		seen++
		if seen == 1 {
			q.Push(Job{Run: func() result.JsResult[heap.Value] {
				seen++

				return result.Return(heap.Undefined())
			}})
		}

		return result.Return(heap.Undefined())
	}})

	q.DrainAll()
	if seen != 2 {
		t.Fatalf("expected a job queued during draining to also run, seen = %d", seen)
	}
}

func TestDrainFinalizationCleanupsPreservesOrderAndPassesHeldValue(t *testing.T) {
	h := heap.NewHeap()
	q := NewQueue()
	v1, v2 := h.NewNumber(1), h.NewNumber(2)
	cleanups := []gc.PendingCleanup{
		{Callback: heap.Undefined(), HeldValue: v1},
		{Callback: heap.Undefined(), HeldValue: v2},
	}

	var seen []float64
	DrainFinalizationCleanups(q, cleanups, func(callback, heldValue heap.Value) result.JsResult[heap.Value] {
		seen = append(seen, h.AsFloat64(heldValue))

		return result.Return(heap.Undefined())
	})

	q.DrainAll()
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("DrainFinalizationCleanups order/values = %v, want [1 2]", seen)
	}
}
