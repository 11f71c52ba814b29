// Package gc implements the collector: a stop-the-world, non-incremental,
// tri-color mark-compact cycle over every heap-allocated kind (§4.5).
//
// A cycle runs through four phases, in this order:
//
//   - Mark: walk every root (global, per-realm, and scope-stack) and
//     every Value reachable from them, setting each visited heap slot's
//     mark bit.
//   - Finalizers: resolve weak references (WeakRef/WeakMap/WeakSet/
//     FinalizationRegistry) against the mark bits, then mark again from
//     whatever that resolution keeps alive. Cleanup callbacks are
//     returned to the caller as PendingCleanup values; this package does
//     not run or queue them.
//   - Planning: for every heap-allocated kind's vector, compute a
//     CompactionPlan from which slots were marked.
//   - Compacting (SweepAndRewrite): drop every unmarked slot, rewrite
//     every surviving entry's embedded references per the plans, and
//     slide surviving entries down to close the gaps tombstones left.
//
// A cycle is triggered only by gcscope.GCScope.Reborrow crossing its
// allocation watermark, or by an explicit Collector.Collect call —
// never concurrently with running script, matching the "stop-the-world"
// requirement.
package gc
