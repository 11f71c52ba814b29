package host

import (
	"github.com/conneroisu/esvm/internal/gc"
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/result"
)

// Job is a deferred unit of work the core posts to a host-owned queue
// (a PromiseReaction callback, a FinalizationRegistry cleanup, a timer
// body). Run is invoked by the embedder's event loop, not by the core.
type Job struct {
	// Name identifies the job for diagnostics ("PromiseReactionJob",
	// "FinalizationRegistryCleanupJob", ...); purely informational.
	Name string
	Run  func() result.JsResult[heap.Value]
}

// Queue is a minimal FIFO job queue. A real embedder (a CLI event loop,
// an HTTP server's request scope) owns one Queue per job category
// (promise microtasks vs. timeout macrotasks run at different points in
// an event loop), matching spec.md's "four enqueue hooks" split.
type Queue struct {
	jobs []Job
}

// NewQueue constructs an empty job queue.
func NewQueue() *Queue { return &Queue{} }

// Push enqueues job at the back of the queue.
func (q *Queue) Push(job Job) { q.jobs = append(q.jobs, job) }

// Pop removes and returns the front job, or reports false if the queue
// is empty.
func (q *Queue) Pop() (Job, bool) {
	if len(q.jobs) == 0 {
		return Job{}, false
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]

	return job, true
}

// Len reports how many jobs are currently queued.
func (q *Queue) Len() int { return len(q.jobs) }

// DrainAll runs every currently queued job to completion in FIFO order,
// stopping at the first exception (mirroring a microtask checkpoint
// surfacing an unhandled-rejection-worthy failure to the caller instead
// of swallowing it). Jobs enqueued by a running job are included, since
// queueing a reaction from within a reaction is exactly how promise
// chains actually drain.
func (q *Queue) DrainAll() result.JsResult[struct{}] {
	for {
		job, ok := q.Pop()
		if !ok {
			return result.Return(struct{}{})
		}
		r := job.Run()
		if r.IsException() {
			return result.Exception[struct{}](r.Thrown())
		}
		if r.IsKilled() {
			return result.Killed[struct{}]()
		}
	}
}

// DrainFinalizationCleanups turns the collector's pending
// FinalizationRegistry callbacks into queued generic jobs, called by the
// realm driver right after a gc.Collector.Collect() cycle completes.
// Finalization ordering is deterministic: registration order, per
// cleanups' own slice order (spec.md §9's own suggested resolution for
// this open question).
func DrainFinalizationCleanups(q *Queue, cleanups []gc.PendingCleanup, call func(callback, heldValue heap.Value) result.JsResult[heap.Value]) {
	for _, c := range cleanups {
		c := c
		q.Push(Job{
			Name: "FinalizationRegistryCleanupJob",
			Run:  func() result.JsResult[heap.Value] { return call(c.Callback, c.HeldValue) },
		})
	}
}
