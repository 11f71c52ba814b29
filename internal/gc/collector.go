package gc

import (
	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
)

// Phase names the collector's current state in its Idle→Marking→
// Planning→Compacting→Idle state machine (§4.5).
type Phase byte

const (
	PhaseIdle Phase = iota
	PhaseMarking
	PhasePlanning
	PhaseCompacting
)

// PendingCleanup is one FinalizationRegistry callback the finalizer
// phase determined must run, because its registered target did not
// survive this cycle's mark phase. Package host turns these into queued
// jobs; package gc only discovers and reports them.
type PendingCleanup struct {
	Callback  heap.Value
	HeldValue heap.Value
}

// Collector drives collection cycles over a single Heap. EnvironmentRoots
// is supplied by package realm (gc cannot import realm: realm depends on
// gc and gcscope, not the reverse) so the mark phase can also walk every
// ExecutionContext's lexical/variable/private environment chain.
type Collector struct {
	Heap              *heap.Heap
	Stack             *gcscope.ScopeStack
	EnvironmentRoots  func() []heap.Index[heap.EnvironmentData]
	phase             Phase
}

// NewCollector constructs a Collector over h, rooted additionally at
// every Scoped value on stack.
func NewCollector(h *heap.Heap, stack *gcscope.ScopeStack) *Collector {
	return &Collector{Heap: h, Stack: stack}
}

// Phase returns the collector's current state, for diagnostics.
func (c *Collector) Phase() Phase { return c.phase }

// Collect runs one full mark-compact cycle and returns the compaction
// plans it applied, so callers holding external references this package
// does not own (e.g. package realm's ExecutionContext.Environment
// indices) can rewrite them too, plus the list of finalization callbacks
// now due to run.
func (c *Collector) Collect() (*heap.Plans, []PendingCleanup) {
	c.phase = PhaseMarking
	c.Heap.ResetAllMarks()

	q := &heap.MarkQueue{}
	c.Heap.EachGlobalRoot(func(v heap.Value) { q.Push(v) })
	c.Stack.EachRoot(func(v heap.Value) { q.Push(v) })
	if c.EnvironmentRoots != nil {
		for _, idx := range c.EnvironmentRoots() {
			c.markEnvironmentChain(idx, q)
		}
	}
	c.drain(q)

	cleanups := c.resolveWeakRefs(q)
	c.drain(q) // entries newly reachable through a resolved weak table

	c.phase = PhasePlanning
	plans := c.buildPlans()

	c.phase = PhaseCompacting
	c.sweepAndCompactAll(plans)
	c.rewriteRoots(plans)
	c.Heap.AdvanceGeneration()

	c.phase = PhaseIdle

	return plans, cleanups
}

func (c *Collector) rewriteRoots(plans *heap.Plans) {
	c.Heap.RewriteGlobalRoots(plans.RewriteValue)
	c.Stack.RewriteRoots(plans.RewriteValue)
}

func (c *Collector) markObjectShape(shape heap.Option[heap.Index[heap.ShapeData]], q *heap.MarkQueue) {
	idx, ok := shape.Get()
	for ok {
		if !c.Heap.Shapes.MarkAlive(idx.Raw()) {
			return
		}
		entry := c.Heap.Shapes.EntryAt(idx.Raw())
		entry.MarkValues(q)
		idx, ok = entry.Parent.Get()
	}
}

func (c *Collector) markEnvironmentChain(idx heap.Index[heap.EnvironmentData], q *heap.MarkQueue) {
	cur := idx
	hasCur := true
	for hasCur {
		if !c.Heap.Environments.MarkAlive(cur.Raw()) {
			return
		}
		entry := c.Heap.Environments.EntryAt(cur.Raw())
		entry.MarkValues(q)
		cur, hasCur = entry.Outer.Get()
	}
}

func (c *Collector) buildPlans() *heap.Plans {
	h := c.Heap
	plans := heap.NewPlans()
	plans.Set(heap.TagHeapString, h.Strings.Plan())
	plans.Set(heap.TagHeapNumber, h.Numbers.Plan())
	plans.Set(heap.TagHeapBigInt, h.BigInts.Plan())
	plans.Set(heap.TagSymbol, h.Symbols.Plan())
	plans.Set(heap.TagOrdinaryObject, h.Objects.Plan())
	plans.Set(heap.TagArray, h.Arrays.Plan())
	plans.Set(heap.TagArrayBuffer, h.ArrayBuffers.Plan())
	plans.Set(heap.TagDataView, h.DataViews.Plan())
	plans.Set(heap.TagTypedArray, h.TypedArrays.Plan())
	plans.Set(heap.TagMap, h.Maps.Plan())
	plans.Set(heap.TagSet, h.Sets.Plan())
	plans.Set(heap.TagWeakMap, h.WeakMaps.Plan())
	plans.Set(heap.TagWeakSet, h.WeakSets.Plan())
	plans.Set(heap.TagWeakRef, h.WeakRefs.Plan())
	plans.Set(heap.TagFinalizationRegistry, h.FinalizationRegistries.Plan())
	plans.Set(heap.TagPromise, h.Promises.Plan())
	plans.Set(heap.TagDate, h.Dates.Plan())
	plans.Set(heap.TagRegExp, h.RegExps.Plan())
	plans.Set(heap.TagError, h.Errors.Plan())
	plans.Set(heap.TagPrimitiveObject, h.PrimitiveObjects.Plan())
	plans.Set(heap.TagBuiltinFunction, h.BuiltinFunctions.Plan())
	plans.Set(heap.TagECMAScriptFunction, h.ECMAScriptFunctions.Plan())
	plans.Set(heap.TagBoundFunction, h.BoundFunctions.Plan())
	plans.Set(heap.TagProxy, h.Proxies.Plan())
	plans.Set(heap.TagModule, h.Modules.Plan())
	plans.Set(heap.ShapeTag(), h.Shapes.Plan())
	plans.Set(heap.EnvironmentTag(), h.Environments.Plan())

	return plans
}

func (c *Collector) sweepAndCompactAll(plans *heap.Plans) {
	h := c.Heap
	h.Strings.SweepAndCompact(plans)
	h.Numbers.SweepAndCompact(plans)
	h.BigInts.SweepAndCompact(plans)
	h.Symbols.SweepAndCompact(plans)
	h.Objects.SweepAndCompact(plans)
	h.Arrays.SweepAndCompact(plans)
	h.ArrayBuffers.SweepAndCompact(plans)
	h.DataViews.SweepAndCompact(plans)
	h.TypedArrays.SweepAndCompact(plans)
	h.Maps.SweepAndCompact(plans)
	h.Sets.SweepAndCompact(plans)
	h.WeakMaps.SweepAndCompact(plans)
	h.WeakSets.SweepAndCompact(plans)
	h.WeakRefs.SweepAndCompact(plans)
	h.FinalizationRegistries.SweepAndCompact(plans)
	h.Promises.SweepAndCompact(plans)
	h.Dates.SweepAndCompact(plans)
	h.RegExps.SweepAndCompact(plans)
	h.Errors.SweepAndCompact(plans)
	h.PrimitiveObjects.SweepAndCompact(plans)
	h.BuiltinFunctions.SweepAndCompact(plans)
	h.ECMAScriptFunctions.SweepAndCompact(plans)
	h.BoundFunctions.SweepAndCompact(plans)
	h.Proxies.SweepAndCompact(plans)
	h.Modules.SweepAndCompact(plans)
	h.Shapes.SweepAndCompact(plans)
	h.Environments.SweepAndCompact(plans)
}
