package gc

import "github.com/conneroisu/esvm/internal/heap"

// drain pops every queued Value, dispatching by tag to the vector that
// owns it. A Value is only expanded into its own outgoing references the
// first time it is visited this cycle (HeapVector.MarkAlive reports
// that), which is what keeps this a linear tri-color traversal instead of
// looping forever on cyclic structures.
func (c *Collector) drain(q *heap.MarkQueue) {
	h := c.Heap
	for {
		v, ok := q.Pop()
		if !ok {
			return
		}
		if !v.Tag().IsHeapTag() {
			continue
		}
		raw := v.HeapIndex()

		switch v.Tag() {
		case heap.TagHeapString:
			if h.Strings.MarkAlive(raw) {
				h.Strings.EntryAt(raw).MarkValues(q)
			}
		case heap.TagHeapNumber:
			if h.Numbers.MarkAlive(raw) {
				h.Numbers.EntryAt(raw).MarkValues(q)
			}
		case heap.TagHeapBigInt:
			if h.BigInts.MarkAlive(raw) {
				h.BigInts.EntryAt(raw).MarkValues(q)
			}
		case heap.TagSymbol:
			if h.Symbols.MarkAlive(raw) {
				h.Symbols.EntryAt(raw).MarkValues(q)
			}
		case heap.TagOrdinaryObject:
			if h.Objects.MarkAlive(raw) {
				e := h.Objects.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Shape, q)
			}
		case heap.TagArray:
			if h.Arrays.MarkAlive(raw) {
				e := h.Arrays.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagArrayBuffer:
			if h.ArrayBuffers.MarkAlive(raw) {
				h.ArrayBuffers.EntryAt(raw).MarkValues(q)
			}
		case heap.TagDataView:
			if h.DataViews.MarkAlive(raw) {
				h.DataViews.EntryAt(raw).MarkValues(q)
			}
		case heap.TagTypedArray:
			if h.TypedArrays.MarkAlive(raw) {
				h.TypedArrays.EntryAt(raw).MarkValues(q)
			}
		case heap.TagMap:
			if h.Maps.MarkAlive(raw) {
				e := h.Maps.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagSet:
			if h.Sets.MarkAlive(raw) {
				e := h.Sets.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagWeakMap:
			if h.WeakMaps.MarkAlive(raw) {
				e := h.WeakMaps.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagWeakSet:
			if h.WeakSets.MarkAlive(raw) {
				e := h.WeakSets.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagWeakRef:
			if h.WeakRefs.MarkAlive(raw) {
				h.WeakRefs.EntryAt(raw).MarkValues(q)
			}
		case heap.TagFinalizationRegistry:
			if h.FinalizationRegistries.MarkAlive(raw) {
				e := h.FinalizationRegistries.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagPromise:
			if h.Promises.MarkAlive(raw) {
				e := h.Promises.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagDate:
			if h.Dates.MarkAlive(raw) {
				e := h.Dates.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagRegExp:
			if h.RegExps.MarkAlive(raw) {
				e := h.RegExps.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagError:
			if h.Errors.MarkAlive(raw) {
				e := h.Errors.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagPrimitiveObject:
			if h.PrimitiveObjects.MarkAlive(raw) {
				e := h.PrimitiveObjects.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagBuiltinFunction:
			if h.BuiltinFunctions.MarkAlive(raw) {
				e := h.BuiltinFunctions.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagECMAScriptFunction:
			if h.ECMAScriptFunctions.MarkAlive(raw) {
				e := h.ECMAScriptFunctions.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
				c.markEnvironmentChain(e.Environment, q)
			}
		case heap.TagBoundFunction:
			if h.BoundFunctions.MarkAlive(raw) {
				e := h.BoundFunctions.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagProxy:
			if h.Proxies.MarkAlive(raw) {
				e := h.Proxies.EntryAt(raw)
				e.MarkValues(q)
				c.markObjectShape(e.Object.Shape, q)
			}
		case heap.TagModule:
			if h.Modules.MarkAlive(raw) {
				h.Modules.EntryAt(raw).MarkValues(q)
			}
		}
	}
}

// isMarked reports whether v was visited during the just-finished mark
// phase. Non-heap (primitive) Values are always considered reachable,
// since weak-reference semantics never apply to them.
func (c *Collector) isMarked(v heap.Value) bool {
	if !v.Tag().IsHeapTag() {
		return true
	}
	raw := v.HeapIndex()
	h := c.Heap
	switch v.Tag() {
	case heap.TagHeapString:
		return h.Strings.MarkedAt(raw)
	case heap.TagHeapNumber:
		return h.Numbers.MarkedAt(raw)
	case heap.TagHeapBigInt:
		return h.BigInts.MarkedAt(raw)
	case heap.TagSymbol:
		return h.Symbols.MarkedAt(raw)
	case heap.TagOrdinaryObject:
		return h.Objects.MarkedAt(raw)
	case heap.TagArray:
		return h.Arrays.MarkedAt(raw)
	case heap.TagArrayBuffer:
		return h.ArrayBuffers.MarkedAt(raw)
	case heap.TagDataView:
		return h.DataViews.MarkedAt(raw)
	case heap.TagTypedArray:
		return h.TypedArrays.MarkedAt(raw)
	case heap.TagMap:
		return h.Maps.MarkedAt(raw)
	case heap.TagSet:
		return h.Sets.MarkedAt(raw)
	case heap.TagWeakMap:
		return h.WeakMaps.MarkedAt(raw)
	case heap.TagWeakSet:
		return h.WeakSets.MarkedAt(raw)
	case heap.TagWeakRef:
		return h.WeakRefs.MarkedAt(raw)
	case heap.TagFinalizationRegistry:
		return h.FinalizationRegistries.MarkedAt(raw)
	case heap.TagPromise:
		return h.Promises.MarkedAt(raw)
	case heap.TagDate:
		return h.Dates.MarkedAt(raw)
	case heap.TagRegExp:
		return h.RegExps.MarkedAt(raw)
	case heap.TagError:
		return h.Errors.MarkedAt(raw)
	case heap.TagPrimitiveObject:
		return h.PrimitiveObjects.MarkedAt(raw)
	case heap.TagBuiltinFunction:
		return h.BuiltinFunctions.MarkedAt(raw)
	case heap.TagECMAScriptFunction:
		return h.ECMAScriptFunctions.MarkedAt(raw)
	case heap.TagBoundFunction:
		return h.BoundFunctions.MarkedAt(raw)
	case heap.TagProxy:
		return h.Proxies.MarkedAt(raw)
	case heap.TagModule:
		return h.Modules.MarkedAt(raw)
	default:
		return true
	}
}
