package heap

// shapeTransitionKey identifies one "parent Shape + newly added key"
// transition, so two objects that add the same key in the same order
// from the same starting Shape end up sharing the child Shape instead of
// each forking their own (§4.3's shared-Shape requirement).
type shapeTransitionKey struct {
	parent Index[ShapeData]
	hasParent bool
	keyHash uint64
}

// ShapeTransitions caches forked Shape nodes so repeatedly adding the
// same key to objects of the same starting shape converges on one shared
// child Shape rather than allocating a fresh one every time.
type ShapeTransitions struct {
	table map[shapeTransitionKey]Index[ShapeData]
}

// LookupShapeTransition returns the cached child Shape for (parent, keyHash), if any.
func (h *Heap) LookupShapeTransition(parent Option[Index[ShapeData]], keyHash uint64) (Index[ShapeData], bool) {
	if h.shapeTransitions.table == nil {
		return Index[ShapeData]{}, false
	}
	p, hasParent := parent.Get()
	idx, ok := h.shapeTransitions.table[shapeTransitionKey{parent: p, hasParent: hasParent, keyHash: keyHash}]

	return idx, ok
}

// InternShapeTransition records that adding the key hashing to keyHash
// onto parent forks to child, for future sharing.
func (h *Heap) InternShapeTransition(parent Option[Index[ShapeData]], keyHash uint64, child Index[ShapeData]) {
	if h.shapeTransitions.table == nil {
		h.shapeTransitions.table = make(map[shapeTransitionKey]Index[ShapeData])
	}
	p, hasParent := parent.Get()
	h.shapeTransitions.table[shapeTransitionKey{parent: p, hasParent: hasParent, keyHash: keyHash}] = child
}
