// Package registry provides a generic thread-safe registry for values indexed
// by key, and an id sequence.
//
// Registry is designed for read-heavy workloads using sync.RWMutex. Unlike a
// plain map it remembers registration order, which the function catalog
// relies on: overloads are tried in the order they were added.
//
// # Basic Usage
//
//	r := registry.New[string, int]()
//	r.Register("one", 1)
//	r.Register("two", 2)
//
//	r.Keys() // ["one", "two"]
//
// # Read-modify-write
//
// Update applies a function to the current value under the write lock:
//
//	overloads.Update("+", func(cur []*Def, _ bool) []*Def {
//	    return append(cur, def)
//	})
//
// # Ids
//
// Sequence hands out increasing ids without any package-level state. Each
// owner keeps its own Sequence:
//
//	var seq registry.Sequence
//	id := seq.Next() // 1
package registry
