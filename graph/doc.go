// Package graph provides the model graph and the instance graph of the
// fixture builder.
//
// # Model Graph
//
// A Registry holds one Type per registered model and one Edge per declared
// relationship. Registering a model registers every model reachable
// through its edges, and pairs each uplink with the forward edge that
// names it (or that it names):
//
//	if err := graph.Register(Player{}, Squad{}); err != nil {
//	    log.Fatal(err)
//	}
//
// The registry is a read-only template once builds start.
//
// # Plan
//
// Subgraph prunes the template to the types connected to a root type and
// returns a Plan: the per-build copy whose EdgeStates (collection size,
// optional branch switch, supplied instances, queued sub-modifiers) are
// reshaped by modifiers before any instance exists.
//
// # Instance Graph
//
// Objects is the arena of instances created by one build. Instances are
// addressed by ID and connected by Links carrying the Edge they realize,
// so cyclic parent and child references are plain lookups.
//
// # Modifiers
//
// A Modifier is offered a Context at three points of a build:
//
//   - plan phase: Plan only, before instances exist
//   - graph phase: Plan and Objects, once linking is done
//   - instance phase: Plan, Objects and the Object being finalized
//
// ShouldRun tells the engine which of them the modifier acts on.
package graph
