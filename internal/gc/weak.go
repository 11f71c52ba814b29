package gc

import "github.com/conneroisu/esvm/internal/heap"

// resolveWeakRefs is the Finalizers phase (§4.5 point 4): having just
// finished an ordinary mark pass, decide which weakly-held references
// survived. A WeakRef/WeakMap key/WeakSet element that was not reached by
// the strong mark pass is cleared/dropped; a WeakMap entry whose key DID
// survive has its value pushed onto q so the caller's second drain marks
// it (an entry's value must not itself keep the key alive, but it must
// stay alive once the key is independently known to be alive).
//
// This performs a single such pass, not a fixpoint over chained weak
// structures (a WeakMap whose value is itself a key in another WeakMap
// that only becomes reachable because of this pass) — full ephemeron
// closure is more machinery than this core's non-goal-scoped conformance
// target calls for.
func (c *Collector) resolveWeakRefs(q *heap.MarkQueue) []PendingCleanup {
	h := c.Heap

	for i := 0; i < h.WeakRefs.Len(); i++ {
		if !h.WeakRefs.AliveAt(uint32(i)) {
			continue
		}
		entry := h.WeakRefs.EntryAt(uint32(i))
		if !c.isMarked(entry.Target) {
			entry.Target = heap.Undefined()
		}
	}

	for i := 0; i < h.WeakMaps.Len(); i++ {
		if !h.WeakMaps.AliveAt(uint32(i)) {
			continue
		}
		entry := h.WeakMaps.EntryAt(uint32(i))
		for ei := range entry.Entries {
			if !entry.Entries[ei].Present {
				continue
			}
			if c.isMarked(entry.Entries[ei].Key) {
				q.Push(entry.Entries[ei].Value)
			} else {
				entry.Entries[ei].Present = false
			}
		}
	}

	for i := 0; i < h.WeakSets.Len(); i++ {
		if !h.WeakSets.AliveAt(uint32(i)) {
			continue
		}
		entry := h.WeakSets.EntryAt(uint32(i))
		for ei := range entry.Elements {
			if entry.Present[ei] && !c.isMarked(entry.Elements[ei]) {
				entry.Present[ei] = false
			}
		}
	}

	var cleanups []PendingCleanup
	for i := 0; i < h.FinalizationRegistries.Len(); i++ {
		if !h.FinalizationRegistries.AliveAt(uint32(i)) {
			continue
		}
		entry := h.FinalizationRegistries.EntryAt(uint32(i))
		for ri := range entry.Registrations {
			r := &entry.Registrations[ri]
			if r.Unregistered || c.isMarked(r.Target) {
				continue
			}
			r.Unregistered = true
			cleanups = append(cleanups, PendingCleanup{
				Callback:  entry.CleanupCallback,
				HeldValue: r.HeldValue,
			})
		}
	}

	return cleanups
}
