// Package env implements environment record behavior (binding
// creation/initialization/lookup/mutation and the outer-environment
// walk) over heap.EnvironmentData, the heap-indexed kind that stores
// lexical/variable/private environments (§4.6 expansion).
package env
