// Package builder builds populated instance graphs from the model graph.
//
// A build starts at any model type. The engine copies the part of the
// model graph connected to that type into a plan, shapes the plan with
// the modifiers, then creates and links instances: forward edges build
// their targets, and uplinks build the parents that own the instance,
// along with the parents' other children. Instance modifiers run next,
// providers fill the remaining fields, and reused edges are swapped for
// cached instances.
//
//	squad, err := builder.New[Squad]().
//	    With(modifier.NumberOf(edge.Of[Squad]("units"), 5)).
//	    Build()
//
// Builds share the global reuse cache and the values emitted by Key
// providers. Tests call Reset to start from a clean state.
package builder
