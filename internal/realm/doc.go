// Package realm implements the realm and execution-context layer
// (§4.6): a Realm owns a global object, a `this` binding, and a full
// intrinsics table; an ExecutionContext stack records the running
// function, realm, and lexical/variable/private environment indices.
// RunInRealm opens the root GCScope over the realm's scope stack, and
// Realm.ReborrowOrCollect ties the collector and the scope stack
// together, so that a GCScope.Reborrow() reporting a due collection
// actually triggers gc.Collector.Collect() — the one place in this module allowed to
// import both internal/gcscope and internal/gc, keeping the rest of the
// import graph acyclic.
package realm
