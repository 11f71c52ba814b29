package heap

// HeapEntry is the contract every heap-resident data kind must satisfy so
// the collector can traverse and rewrite it without package gc needing to
// know the kind's internal shape (§4.5's "each heap kind implements
// mark_values/sweep_values").
type HeapEntry interface {
	// MarkValues enumerates every Value this entry embeds onto q.
	MarkValues(q *MarkQueue)
	// SweepValues returns a copy of this entry with every embedded
	// Value rewritten per the given compaction plans.
	SweepValues(p *Plans) any
}

// HeapVector is one H_K from §3.2: a structure-of-arrays store for a
// single heap-allocated kind, addressed by Index[K]. alive tracks
// tombstones (a false slot is "None" in spec terms); marked is a
// transient scratch bit the collector's mark phase owns and always
// resets before the next cycle.
type HeapVector[K HeapEntry] struct {
	slots  []K
	alive  []bool
	marked []bool
}

// Create appends data and returns its new Index. Per §4.2, if the
// backing slice reallocates, every prior Index remains valid — Go slice
// growth never invalidates an offset, only a pointer into the old array,
// and Index is an offset.
func (h *HeapVector[K]) Create(data K) Index[K] {
	idx := uint32(len(h.slots))
	h.slots = append(h.slots, data)
	h.alive = append(h.alive, true)
	h.marked = append(h.marked, false)

	return Index[K]{v: idx}
}

// Get returns a pointer to the slot named by i. Per §4.2, indexing a
// tombstoned slot is a panic, not an error return — the caller holding
// i is, by construction, holding a live Value, so a tombstone there is
// the "rooting bug" §3.2 describes.
func (h *HeapVector[K]) Get(i Index[K]) *K {
	if int(i.v) >= len(h.alive) || !h.alive[i.v] {
		panic("heap: access to tombstoned or out-of-range heap index")
	}

	return &h.slots[i.v]
}

// TryGet is the non-panicking form of Get, used by the collector and by
// diagnostics that must tolerate a stale index.
func (h *HeapVector[K]) TryGet(i Index[K]) (*K, bool) {
	if int(i.v) >= len(h.alive) || !h.alive[i.v] {
		return nil, false
	}

	return &h.slots[i.v], true
}

// Set overwrites the slot named by i.
func (h *HeapVector[K]) Set(i Index[K], data K) {
	if int(i.v) >= len(h.alive) || !h.alive[i.v] {
		panic("heap: Set on tombstoned or out-of-range heap index")
	}
	h.slots[i.v] = data
}

// Len reports the vector's current length, including tombstones.
func (h *HeapVector[K]) Len() int { return len(h.slots) }

// AliveAt reports whether slot i is occupied.
func (h *HeapVector[K]) AliveAt(i uint32) bool { return i < uint32(len(h.alive)) && h.alive[i] }

// ResetMarks clears the transient mark bitset at the start of a
// collection cycle.
func (h *HeapVector[K]) ResetMarks() {
	for i := range h.marked {
		h.marked[i] = false
	}
}

// MarkAlive marks slot i (by Index.Raw()) reachable. Returns true the
// first time a given slot is marked, so the collector's worklist only
// enqueues each entry's own outgoing references once.
func (h *HeapVector[K]) MarkAlive(raw uint32) (firstVisit bool) {
	if !h.alive[raw] || h.marked[raw] {
		return false
	}
	h.marked[raw] = true

	return true
}

// MarkedAt reports whether slot i was marked reachable during the
// current mark phase, without side effects (unlike MarkAlive).
func (h *HeapVector[K]) MarkedAt(i uint32) bool { return i < uint32(len(h.marked)) && h.marked[i] }

// EntryAt returns a pointer to the live slot at raw offset, for the
// collector's mark-phase traversal (which works from raw offsets rather
// than typed Index values, since it discovers them generically via
// Value.HeapIndex()).
func (h *HeapVector[K]) EntryAt(raw uint32) *K { return &h.slots[raw] }

// Plan computes this vector's CompactionPlan from its current occupancy:
// any slot never marked during the just-finished mark phase is
// unreachable and becomes a tombstone candidate for sweep.
func (h *HeapVector[K]) Plan() CompactionPlan {
	alive := make([]bool, len(h.alive))
	for i := range alive {
		alive[i] = h.alive[i] && h.marked[i]
	}

	return computeCompactionPlan(alive)
}

// SweepAndCompact rewrites every surviving entry's outgoing references
// per plans, drops entries that were not marked, and compacts the
// backing slices in place — the "sweep-and-rewrite" phase of §4.5,
// folded into a single pass per vector.
func (h *HeapVector[K]) SweepAndCompact(plans *Plans) {
	write := 0
	for read := range h.slots {
		if !h.alive[read] || !h.marked[read] {
			continue
		}
		swept := h.slots[read].SweepValues(plans).(K)
		h.slots[write] = swept
		write++
	}
	h.slots = h.slots[:write]
	h.alive = h.alive[:write]
	h.marked = h.marked[:write]
	for i := range h.alive {
		h.alive[i] = true
		h.marked[i] = false
	}
}
