// Package object implements the behavior that operates over the data
// package heap defines for object-kind Values: canonical property-key
// hashing, Shape-sharing and dictionary-mode transitions, and the
// ordinary [[Get]]/[[Set]]/[[DefineOwnProperty]]/prototype-walk
// algorithms (§3.3, §4.3).
//
// Every function here takes a *heap.Heap explicitly rather than being a
// method on a heap type, so heap stays a plain data package and object
// stays free to call back into heap's typed constructors without an
// import cycle.
package object
