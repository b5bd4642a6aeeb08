// Package edge provides fluent builders for declaring relationships between
// fixture models.
//
// # Edge Kinds
//
//   - edge.One: a single related instance, built with its owner
//   - edge.Many: a collection of related instances
//   - edge.Maybe: an optional single instance, absent unless enabled
//   - edge.Uplink: a back-reference receiving the instance that caused
//     this one to be built
//
// Every builder takes the edge name and a typed accessor returning the
// address of the struct field that holds the relationship:
//
//	edge.One("leader", func(s *Squad) **Hero { return &s.Leader })
//	edge.Many("units", func(s *Squad) *[]*Unit { return &s.Units })
//
// # Back-references
//
// An uplink pairs with exactly one forward edge on its target. Either side
// names the other with Ref:
//
//	// Squad schema
//	edge.Many("units", func(s *Squad) *[]*Unit { return &s.Units }).Ref("squad")
//
//	// Unit schema
//	edge.Uplink("squad", func(u *Unit) **Squad { return &u.Squad })
//
// Building a Unit climbs the uplink and builds its Squad, whose units
// collection then contains the Unit itself.
//
// # Options
//
//	edge.Many("units", ...).Count(3)            // default collection size
//	edge.One("profile", ...).Optional()         // same as edge.Maybe
//	edge.Maybe("profile", ...).Enabled()        // optional, built by default
//	edge.One("realm", ...).Reused("name")       // shared through the reuse cache
//	edge.One("realm", ...).Reused().Local()     // cache private to this edge
//
// # References
//
// Modifiers address edges with Of:
//
//	modifier.NumberOf(edge.Of[Squad]("units"), 5)
package edge
