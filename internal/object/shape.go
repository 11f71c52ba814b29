package object

import "github.com/conneroisu/esvm/internal/heap"

// DictionaryThreshold is the own-property count above which
// DefineOwnProperty, after adding a key, drops the object's Shape and
// leaves it in dictionary mode (§4.3's demotion-on-threshold policy).
// Objects are never created in dictionary mode.
const DictionaryThreshold = 32

// ForkShape returns the Shape reached by adding key onto parent (or the
// empty Shape if parent is None), creating and caching a new Shape node
// the first time this exact (parent, key) transition is requested and
// reusing it afterward so sibling objects that add the same key in the
// same order converge on one shared Shape (§4.3).
func ForkShape(h *heap.Heap, parent heap.Option[heap.Index[heap.ShapeData]], key heap.PropertyKey) heap.Index[heap.ShapeData] {
	keyHash := HashKey(h, key)
	if cached, ok := h.LookupShapeTransition(parent, keyHash); ok {
		return cached
	}

	var keys []heap.PropertyKey
	if p, ok := parent.Get(); ok {
		parentKeys := h.Shapes.Get(p).Keys
		keys = make([]heap.PropertyKey, len(parentKeys)+1)
		copy(keys, parentKeys)
		keys[len(parentKeys)] = key
	} else {
		keys = []heap.PropertyKey{key}
	}

	child := h.Shapes.Create(heap.ShapeData{Keys: keys, Parent: parent})
	h.InternShapeTransition(parent, keyHash, child)

	return child
}

// ShapeKeys returns the ordered key list a Shape describes.
func ShapeKeys(h *heap.Heap, shape heap.Index[heap.ShapeData]) []heap.PropertyKey {
	return h.Shapes.Get(shape).Keys
}
