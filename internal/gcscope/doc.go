// Package gcscope implements the rooting discipline a moving collector
// requires: every live reference to a heap-allocated Value must be
// findable and rewritable during compaction (§4.4).
//
// Three handle kinds, by lifetime:
//
//   - Bound is valid until its owning GCScope is reborrowed after a
//     collection has advanced the heap's generation (a Reborrow with no
//     collection in between leaves it valid) — a direct reference into
//     heap memory that a collection may move out from under it. Enforced at runtime via a generation stamp rather
//     than at compile time: a language with borrow-checked lifetimes can
//     reject a stale Bound access at compile time, Go cannot, so Bound.Get
//     instead panics the first time a stale access actually happens. That
//     is a strictly stronger guarantee than silently reading moved or
//     tombstoned heap state, even though it moves the check to runtime.
//   - Scoped survives any number of collections for as long as its
//     GCScope's frame remains on the ScopeStack: it is part of the root
//     set the collector itself walks and rewrites.
//   - Global survives for the lifetime of the Heap, independent of any
//     call-stack frame, via the Heap's own root table.
package gcscope
