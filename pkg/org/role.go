package org

// Role is a position defined within a single unit. The same role name
// may exist in many units; each definition is independent and tracks
// its own holders.
type Role struct {
	name        string
	description string

	unit    *Unit
	holders []*Employee
}

// NewRole creates a role not yet attached to a unit.
func NewRole(name, description string) *Role {
	return &Role{name: name, description: description}
}

// Name returns the role's name.
func (r *Role) Name() string { return r.name }

// Description returns the role's description.
func (r *Role) Description() string { return r.description }

// Unit returns the unit this role is defined in, or nil when detached.
func (r *Role) Unit() *Unit { return r.unit }

// Holders returns the employees currently holding the role, in
// assignment order. The returned slice is a copy.
func (r *Role) Holders() []*Employee {
	out := make([]*Employee, len(r.holders))
	copy(out, r.holders)
	return out
}

// HeldBy reports whether e currently holds the role.
func (r *Role) HeldBy(e *Employee) bool {
	for _, h := range r.holders {
		if h == e {
			return true
		}
	}
	return false
}
