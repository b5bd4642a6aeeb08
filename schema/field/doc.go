// Package field provides builders for the value fields of fixture models
// and the providers that fill them.
//
// A field binds a name to a typed accessor and, optionally, a provider:
//
//	field.Attr("name", func(u *Unit) *string { return &u.Name }).
//	    From(field.RandomString("unit-%d", 1, 1000))
//
// # Providers
//
//	field.Fixed(v)                      // always v
//	field.Random(1, 10)                 // random integer in [1, 10]
//	field.RandomString("foo_%d", 1, 10) // formatted random integer
//	field.UID()                         // fresh UUID string
//	field.UUID()                        // fresh uuid.UUID
//	field.Now()                         // current time
//	field.Key(field.Random(1, 100))     // unique per type and field
//	field.Lambda(func(u *Unit) string { // computed from the instance
//	    return u.Kind + "-unit"
//	})
//
// Key retries its provider until it yields a value never returned before
// for the same type and field. After KeyAttempts failures it returns an
// ExhaustedError.
//
// A field that already holds a non-zero value, or that a modifier set
// explicitly, is left untouched by its provider.
package field
