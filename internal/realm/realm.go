package realm

import (
	"github.com/conneroisu/esvm/internal/env"
	"github.com/conneroisu/esvm/internal/gc"
	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
)

// Realm owns a global object, a `this` binding, and a full intrinsics
// table (§4.6). Multiple realms may coexist over one Heap, sharing the
// collector and allocator; each has its own intrinsics table and global
// environment.
type Realm struct {
	Heap         *heap.Heap
	Intrinsics   IntrinsicTable
	GlobalObject heap.Value
	GlobalEnv    heap.Index[heap.EnvironmentData]
	Contexts     *ContextStack

	scopes    *gcscope.ScopeStack
	collector *gc.Collector
	globalRID heap.GlobalRootID

	pendingCleanups []gc.PendingCleanup
}

// NewRealm allocates a fresh global object and global environment over h
// and wires a Collector whose EnvironmentRoots callback walks this
// realm's ContextStack — the one place package gc's otherwise-generic
// root set gets realm-specific knowledge, via dependency injection
// rather than an import from gc to realm.
func NewRealm(h *heap.Heap) *Realm {
	global := h.NewObject(heap.Null())
	globalEnv := env.NewGlobal(h, global)

	r := &Realm{
		Heap:         h,
		GlobalObject: global,
		GlobalEnv:    globalEnv,
		Contexts:     NewContextStack(),
		scopes:       gcscope.NewScopeStack(),
	}
	r.globalRID = h.AddGlobalRoot(global)

	r.collector = gc.NewCollector(h, r.scopes)
	r.collector.EnvironmentRoots = r.Contexts.EnvironmentRoots

	return r
}

// Scopes returns the realm's ScopeStack, shared by every GCScope created
// against this realm.
func (r *Realm) Scopes() *gcscope.ScopeStack { return r.scopes }

// RunInRealm is the rendition of spec.md's `run_in_realm(&realm, |agent,
// gc| …)`: it opens a root GCScope over the realm's heap and scope stack,
// invokes fn, and guarantees the scope is popped (un-rooting whatever fn
// rooted) before returning, regardless of how fn completes.
func RunInRealm[T any](r *Realm, fn func(*gcscope.GCScope) T) T {
	scope := gcscope.NewRootScope(r.Heap, r.scopes)
	defer scope.Pop()

	return fn(scope)
}

// ReborrowOrCollect reborrows scope and, if the allocation watermark was
// crossed, runs a full collection cycle and rewrites every index this
// package itself holds outside the heap's own root tables (the
// intrinsics table and every ExecutionContext's environment indices —
// the global object needs no such rewrite, since AddGlobalRoot already
// made the heap responsible for it). Callers use the returned GCScope in
// place of the one they passed in, mirroring the Rust `reborrow()`
// convention spec.md names (§4.4).
func (r *Realm) ReborrowOrCollect(scope *gcscope.GCScope) *gcscope.GCScope {
	if !scope.Reborrow() {
		return scope
	}

	plans, cleanups := r.collector.Collect()

	for i := range r.Intrinsics {
		r.Intrinsics[i] = plans.RewriteValue(r.Intrinsics[i])
	}
	r.rewriteContextEnvironments(plans)

	r.pendingCleanups = append(r.pendingCleanups, cleanups...)

	return scope
}

// ForceCollect runs a collection cycle unconditionally, regardless of
// whether the allocation watermark was crossed — the engine-exposed
// `gc()` host hook (§8 scenario 1/4) that lets script/test code ask for a
// cycle deterministically rather than waiting on allocation pressure.
func (r *Realm) ForceCollect(scope *gcscope.GCScope) {
	scope.Reborrow()
	plans, cleanups := r.collector.Collect()

	for i := range r.Intrinsics {
		r.Intrinsics[i] = plans.RewriteValue(r.Intrinsics[i])
	}
	r.rewriteContextEnvironments(plans)

	r.pendingCleanups = append(r.pendingCleanups, cleanups...)
}

// TakePendingCleanups returns every FinalizationRegistry callback queued
// by a collection cycle since the last call, clearing the realm's
// pending list. Package realm cannot itself turn these into host jobs
// (package host already imports realm for HostHooks, so the reverse
// import would cycle); package eval, which owns both the evaluator's
// callable Values and a host.Queue, is the one that calls this after
// every ReborrowOrCollect/ForceCollect and feeds the result through
// host.DrainFinalizationCleanups (§4.5 point 4).
func (r *Realm) TakePendingCleanups() []gc.PendingCleanup {
	cleanups := r.pendingCleanups
	r.pendingCleanups = nil

	return cleanups
}

func (r *Realm) rewriteContextEnvironments(plans *heap.Plans) {
	tag := heap.EnvironmentTag()
	for _, ctx := range r.Contexts.frames {
		ctx.Lexical = heap.RewriteIndex(plans, tag, ctx.Lexical)
		ctx.Variable = heap.RewriteIndex(plans, tag, ctx.Variable)
		if idx, ok := ctx.Private.Get(); ok {
			ctx.Private = heap.Some(heap.RewriteIndex(plans, tag, idx))
		}
	}
	r.GlobalEnv = heap.RewriteIndex(plans, tag, r.GlobalEnv)
}

// Close releases the realm's global-object root, making it (and anything
// reachable only through it) collectible. Callers must not use the realm
// afterward.
func (r *Realm) Close() {
	r.Heap.RemoveGlobalRoot(r.globalRID)
}
