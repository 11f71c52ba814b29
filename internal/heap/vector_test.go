package heap

import "testing"

type stubEntry struct {
	ref Value
}

func (s *stubEntry) MarkValues(q *MarkQueue) { q.Push(s.ref) }
func (s stubEntry) SweepValues(p *Plans) any {
	s.ref = p.RewriteValue(s.ref)

	return s
}

func TestHeapVectorCreateGetSet(t *testing.T) {
	var hv HeapVector[stubEntry]
	idx := hv.Create(stubEntry{ref: Undefined()})
	if hv.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", hv.Len())
	}
	hv.Set(idx, stubEntry{ref: FromBool(true)})
	if got := hv.Get(idx).ref; !got.IsBoolean() || !got.AsBool() {
		t.Fatalf("Set/Get round-trip failed")
	}
}

func TestHeapVectorGetPanicsOnTombstone(t *testing.T) {
	var hv HeapVector[stubEntry]
	idx := hv.Create(stubEntry{})
	hv.alive[idx.Raw()] = false

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on tombstoned access")
		}
	}()
	hv.Get(idx)
}

func TestHeapVectorSweepAndCompactDropsUnmarked(t *testing.T) {
	var hv HeapVector[stubEntry]
	a := hv.Create(stubEntry{ref: FromInt32(1)})
	_ = hv.Create(stubEntry{ref: FromInt32(2)}) // never marked, should be dropped
	c := hv.Create(stubEntry{ref: FromInt32(3)})

	hv.MarkAlive(a.Raw())
	hv.MarkAlive(c.Raw())

	plan := hv.Plan()
	if plan.newLen != 2 {
		t.Fatalf("Plan().newLen = %d, want 2", plan.newLen)
	}

	plans := NewPlans()
	hv.SweepAndCompact(plans)

	if hv.Len() != 2 {
		t.Fatalf("after SweepAndCompact, Len() = %d, want 2", hv.Len())
	}
	if got := hv.Get(NewIndex[stubEntry](0)).ref.AsSafeInt64(); got != 1 {
		t.Fatalf("slot 0 = %d, want 1", got)
	}
	if got := hv.Get(NewIndex[stubEntry](1)).ref.AsSafeInt64(); got != 3 {
		t.Fatalf("slot 1 = %d, want 3", got)
	}
}

func TestCompactionPlanRewriteIndex(t *testing.T) {
	alive := []bool{true, false, true, true}
	plan := computeCompactionPlan(alive)
	if plan.newLen != 3 {
		t.Fatalf("newLen = %d, want 3", plan.newLen)
	}
	if got := plan.rewrite(0); got != 0 {
		t.Fatalf("rewrite(0) = %d, want 0", got)
	}
	if got := plan.rewrite(2); got != 1 {
		t.Fatalf("rewrite(2) = %d, want 1", got)
	}
	if got := plan.rewrite(3); got != 2 {
		t.Fatalf("rewrite(3) = %d, want 2", got)
	}
}
