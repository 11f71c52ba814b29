package heap

// CompactionPlan is the per-kind "sorted list of shift amounts" from
// §4.5: shift[i] is the number of tombstoned slots at or before old index
// i, so an old index i survives at i - shift[i].
type CompactionPlan struct {
	shift  []uint32
	newLen int
}

// computeCompactionPlan walks alive, a parallel occupancy vector for one
// HeapVector, and produces its CompactionPlan.
func computeCompactionPlan(alive []bool) CompactionPlan {
	shift := make([]uint32, len(alive))
	var dead uint32
	for i, a := range alive {
		if !a {
			dead++
		}
		shift[i] = dead
	}

	return CompactionPlan{shift: shift, newLen: len(alive) - int(dead)}
}

// rewrite maps an old index to its post-compaction index. Callers must
// only call this for indices that were alive when the plan was computed.
func (p CompactionPlan) rewrite(old uint32) uint32 {
	return old - p.shift[old]
}

// Plans aggregates one CompactionPlan per heap Tag, letting any
// HeapEntry's SweepValues rewrite a Value without knowing which vector it
// belongs to — only the Value's own tag needs to be known, and Value
// already carries that.
type Plans struct {
	byTag map[Tag]CompactionPlan
}

// NewPlans constructs an empty Plans; package gc populates it with one
// entry per heap-tagged kind before the sweep phase.
func NewPlans() *Plans {
	return &Plans{byTag: make(map[Tag]CompactionPlan)}
}

// Set records the compaction plan for the vector backing tag.
func (p *Plans) Set(tag Tag, plan CompactionPlan) {
	p.byTag[tag] = plan
}

// RewriteValue rewrites v's heap index in place per the plan for its tag,
// leaving non-heap Values (and Values whose tag has no registered plan,
// e.g. because nothing of that kind was ever allocated) unchanged.
func (p *Plans) RewriteValue(v Value) Value {
	if !v.tag.IsHeapTag() {
		return v
	}
	plan, ok := p.byTag[v.tag]
	if !ok {
		return v
	}

	return Value{tag: v.tag, bits: uint64(plan.rewrite(uint32(v.bits)))}
}

// RewriteIndex rewrites a typed Index per the plan registered for tag.
// Callers pass the Tag explicitly because Index[K] itself carries no tag
// (many K types, such as EnvironmentData, have no corresponding Value
// variant at all).
func RewriteIndex[K any](p *Plans, tag Tag, i Index[K]) Index[K] {
	plan, ok := p.byTag[tag]
	if !ok {
		return i
	}

	return Index[K]{v: plan.rewrite(i.v)}
}
