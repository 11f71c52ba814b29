package heap

// ShapeTag returns the opaque Tag used to key a Plans entry for the
// Shape vector. Shape has no Value variant of its own (nothing ever
// boxes a Shape into a Value), so package gc — which builds Plans for
// every vector generically — needs an exported handle for it.
func ShapeTag() Tag { return tagShapeInternal }

// EnvironmentTag returns the opaque Tag used to key a Plans entry for
// the Environment vector, for the same reason as ShapeTag.
func EnvironmentTag() Tag { return tagEnvironmentInternal }

// ResetAllMarks clears the transient mark bitset on every heap vector,
// called by package gc at the start of a collection cycle.
func (h *Heap) ResetAllMarks() {
	h.Strings.ResetMarks()
	h.Numbers.ResetMarks()
	h.BigInts.ResetMarks()
	h.Symbols.ResetMarks()
	h.Objects.ResetMarks()
	h.Arrays.ResetMarks()
	h.ArrayBuffers.ResetMarks()
	h.DataViews.ResetMarks()
	h.TypedArrays.ResetMarks()
	h.Maps.ResetMarks()
	h.Sets.ResetMarks()
	h.WeakMaps.ResetMarks()
	h.WeakSets.ResetMarks()
	h.WeakRefs.ResetMarks()
	h.FinalizationRegistries.ResetMarks()
	h.Promises.ResetMarks()
	h.Dates.ResetMarks()
	h.RegExps.ResetMarks()
	h.Errors.ResetMarks()
	h.PrimitiveObjects.ResetMarks()
	h.BuiltinFunctions.ResetMarks()
	h.ECMAScriptFunctions.ResetMarks()
	h.BoundFunctions.ResetMarks()
	h.Proxies.ResetMarks()
	h.Modules.ResetMarks()
	h.Shapes.ResetMarks()
	h.Environments.ResetMarks()
}

// RewriteGlobalRoots rewrites every live global root's Value in place
// per rewrite, called by package gc's sweep phase.
func (h *Heap) RewriteGlobalRoots(rewrite func(Value) Value) {
	for i := range h.roots.slots {
		if h.roots.slots[i].alive {
			h.roots.slots[i].value = rewrite(h.roots.slots[i].value)
		}
	}
}
