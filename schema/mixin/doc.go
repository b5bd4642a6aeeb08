// Package mixin provides the base mixin implementation and ready-to-use
// mixins for fixture models.
//
// A mixin is a reusable set of fields and edges merged into every model
// that lists it:
//
//	func (User) Mixin() []forge.Mixin {
//	    return []forge.Mixin{
//	        mixin.ID[User]{Ref: func(u *User) *string { return &u.ID }},
//	        mixin.Timestamps[User]{
//	            Created: func(u *User) *time.Time { return &u.CreatedAt },
//	            Updated: func(u *User) *time.Time { return &u.UpdatedAt },
//	        },
//	    }
//	}
//
// Custom mixins embed Schema and override the methods they need.
package mixin
