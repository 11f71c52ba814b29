package host

import (
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/realm"
	"github.com/conneroisu/esvm/internal/result"
)

// RejectionOperation names which lifecycle event a promise underwent,
// passed to HostHooks.PromiseRejectionTracker (spec.md's
// host_promise_rejection_tracker(promise, op)).
type RejectionOperation byte

const (
	// RejectionOperationReject fires the first time a promise is rejected
	// with no handler attached yet.
	RejectionOperationReject RejectionOperation = iota
	// RejectionOperationHandle fires when a handler is attached to a
	// promise after it already rejected unhandled, canceling the report.
	RejectionOperationHandle
)

// ModuleLoadPayload carries whatever host-defined data accompanied the
// originating module-load request, threaded through unexamined by the
// core (spec.md's "payload" in host_load_imported_module).
type ModuleLoadPayload any

// HostHooks is the embedding interface for a host (§6); each method's
// comment documents its contract. No code in this module implements or
// calls HostHooks, and there is no Agent type: the evaluator enqueues
// finalization cleanups on its own Queue (Evaluator.Jobs) directly.
type HostHooks interface {
	// EnsureCanCompileStrings is consulted before any `eval`/`Function`
	// constructor compiles a new source string, so embedders (e.g. a CSP
	// enforcer) can refuse.
	EnsureCanCompileStrings(r *realm.Realm) result.JsResult[struct{}]

	// HasSourceTextAvailable reports whether fn's original source text
	// can still be recovered (for Function.prototype.toString).
	HasSourceTextAvailable(fn heap.Value) bool

	// LoadImportedModule begins loading the module specifier requests
	// relative to referrer; the core does not block on this — it is
	// expected to eventually call back into the module graph via a
	// mechanism outside this interface's current scope.
	LoadImportedModule(referrer heap.Value, specifier string, payload ModuleLoadPayload)

	// PromiseRejectionTracker is called whenever a promise's rejection
	// handling state changes in a way the host must know about.
	PromiseRejectionTracker(promise heap.Value, op RejectionOperation)

	// EnqueuePromiseJob posts a PromiseReaction job for the host's
	// microtask queue.
	EnqueuePromiseJob(job Job)
	// EnqueueGenericJob posts a job with no particular queue affinity
	// (e.g. a FinalizationRegistry cleanup callback).
	EnqueueGenericJob(job Job)
	// EnqueueTimeoutJob posts a job to run no sooner than delayMs from
	// now (a macrotask).
	EnqueueTimeoutJob(job Job, delayMs int64)
}
