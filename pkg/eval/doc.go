// Package eval is a tree-walking evaluator over internal/ast, the last
// piece of the "external collaborator" trio spec.md names (lexer,
// parser, eval) and the only one that reaches back into the core: it
// allocates through internal/heap and internal/gcscope, resolves
// property access through internal/object, and drives a realm's
// execution-context stack (internal/realm) across statements and calls.
//
// This is deliberately not a conformant ECMAScript evaluator — no
// generators, no async/await, no destructuring, no classes, no template
// interpolation (see pkg/parser's doc comment for the matching grammar
// restriction). The other simplifications the rest of this package
// refers back to:
//   - a block gets no environment of its own; its declarations bind in
//     the enclosing function's or script's environment
//   - only function declarations are hoisted; a var/let/const binding is
//     created when its declaration runs, with no temporal dead zone
//   - an assignment to an undeclared identifier creates a global binding
//     instead of throwing
//   - for-in visits an Array's indices and own non-symbol keys, never
//     inherited ones
//   - spread accepts Arrays and strings only; there is no iterator
//     protocol
//   - objects are never converted through valueOf/toString: ToNumber of
//     an object is NaN, ToString of a plain object is "[object Object]",
//     and == between an object and a number or string is false
//   - a Proxy honours "get" and "set" traps only, with no invariant
//     checks against its target
//   - Heap constructors take no GCScope, so the evaluator calls
//     scope.NoteAllocation itself after creating objects, arrays,
//     functions, errors and similar values; numbers, strings and the
//     receiver object a `new` expression allocates are not counted
//
// It exists to give the core something real to exercise end to
// end: parse a script, evaluate it against a Realm, observe garbage
// collection kick in under allocation pressure, and surface thrown
// exceptions as JsResult completions.
//
// File layout mirrors the concerns a tree-walker naturally splits into:
//   - evaluator.go: Evaluator, statement dispatch, completions, safepoints
//   - control_flow.go: if/while/do-while/for/for-in/for-of/try
//   - operators.go: expression evaluation (literals through sequence)
//   - functions.go: closures, calls, `new`, the object.Caller bridge
//   - builtins.go: realm bootstrap (intrinsics) and the global builtins
package eval
