// Package modifier provides the modifiers that reshape a build.
//
// Shaping modifiers run against the build plan before any instance exists:
//
//	builder.New[Squad]().With(
//	    modifier.NumberOf(edge.Of[Squad]("units"), 5),
//	    modifier.OneOf(edge.Of[Squad]("units"), modifier.Values[Unit](modifier.Attrs{"hp": 1})),
//	    modifier.Enabled(edge.Of[Squad]("banner")),
//	)
//
// Instance modifiers run once the instance graph is linked, on every
// instance they select, before providers fill the remaining fields:
//
//	modifier.Instances[Unit]().Sets(modifier.Attrs{"rank": "captain"})
//	modifier.Given(field.Of[Hero]("name"), "Conan")
//
// Modifiers run in ascending priority; modifiers of equal priority run in
// the order they were given.
package modifier
