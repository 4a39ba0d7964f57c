// Package org defines the in-memory organizational chart model: units,
// roles, employees and the structural rules that tie them together.
//
// # Model
//
// A chart is a tree of [Unit] values. Every unit carries a [Kind]
// (Board, Department or Group), an ordered list of child units and an
// ordered list of [Role] definitions. Employees are not owned by a
// unit: an [Employee] holds assignments that reference roles, and a
// role tracks the employees holding it, so both sides of the relation
// stay consistent through the Assign and Unassign operations.
//
// # Structural rules
//
// The tree obeys three hard rules: sibling units have distinct names,
// a Group never has children, and a Board appears only at the root.
// Mutating operations enforce what they can locally; [Validate] checks
// a whole tree, which matters after loading from external storage.
package org

import "errors"

// Sentinel errors returned by model operations.
var (
	// ErrNilUnit is returned when a nil unit is passed where a unit is required.
	ErrNilUnit = errors.New("org: unit is nil")
	// ErrDuplicateName is returned when adding a child whose name collides
	// with a sibling.
	ErrDuplicateName = errors.New("org: duplicate sibling name")
	// ErrGroupChildren is returned when attempting to add a child to a Group.
	ErrGroupChildren = errors.New("org: group cannot contain sub-units")
	// ErrBoardPlacement is returned when a Board would end up below the root.
	ErrBoardPlacement = errors.New("org: board allowed only at root")
	// ErrNotChild is returned when removing a unit that is not a child of
	// the receiver.
	ErrNotChild = errors.New("org: unit is not a child")
	// ErrCycle is returned when an attach would make a unit its own ancestor.
	ErrCycle = errors.New("org: attach would create a cycle")
)

// Unit is a node of the organizational tree.
type Unit struct {
	name        string
	description string
	kind        Kind

	parent   *Unit
	children []*Unit
	roles    []*Role
}

// NewUnit creates a detached unit of the given kind.
func NewUnit(kind Kind, name, description string) *Unit {
	return &Unit{name: name, description: description, kind: kind}
}

// Name returns the unit's display name.
func (u *Unit) Name() string { return u.name }

// Description returns the unit's free-form description.
func (u *Unit) Description() string { return u.description }

// Kind returns the unit's kind.
func (u *Unit) Kind() Kind { return u.kind }

// Parent returns the containing unit, or nil for a root.
func (u *Unit) Parent() *Unit { return u.parent }

// SetName updates the unit's display name. Sibling uniqueness is not
// re-checked here; run Validate after bulk edits.
func (u *Unit) SetName(name string) { u.name = name }

// SetDescription updates the unit's description.
func (u *Unit) SetDescription(d string) { u.description = d }

// Children returns the child units in insertion order. The returned
// slice is a copy and may be modified freely.
func (u *Unit) Children() []*Unit {
	out := make([]*Unit, len(u.children))
	copy(out, u.children)
	return out
}

// Roles returns the unit's role definitions in insertion order. The
// returned slice is a copy.
func (u *Unit) Roles() []*Role {
	out := make([]*Role, len(u.roles))
	copy(out, u.roles)
	return out
}

// AddChild attaches child below u, enforcing the local structural
// rules: u must not be a Group, child must not be a Board, sibling
// names must stay unique, and the attach must not create a cycle.
// A child attached elsewhere is first detached from its old parent.
func (u *Unit) AddChild(child *Unit) error {
	if child == nil {
		return ErrNilUnit
	}
	if u.kind == KindGroup {
		return ErrGroupChildren
	}
	if child.kind == KindBoard {
		return ErrBoardPlacement
	}
	for anc := u; anc != nil; anc = anc.parent {
		if anc == child {
			return ErrCycle
		}
	}
	for _, sib := range u.children {
		if sib.name == child.name {
			return ErrDuplicateName
		}
	}
	if child.parent != nil {
		if err := child.parent.RemoveChild(child); err != nil {
			return err
		}
	}
	child.parent = u
	u.children = append(u.children, child)
	return nil
}

// RemoveChild detaches child from u. The child keeps its own subtree
// and becomes a root.
func (u *Unit) RemoveChild(child *Unit) error {
	if child == nil {
		return ErrNilUnit
	}
	for i, c := range u.children {
		if c == child {
			u.children = append(u.children[:i], u.children[i+1:]...)
			child.parent = nil
			return nil
		}
	}
	return ErrNotChild
}

// AddRole appends a role definition to the unit. A role with the same
// name as an existing one replaces nothing; duplicates are allowed at
// the model level and flagged by Validate.
func (u *Unit) AddRole(r *Role) {
	if r == nil {
		return
	}
	r.unit = u
	u.roles = append(u.roles, r)
}

// RemoveRole detaches a role from the unit and clears all its holders.
func (u *Unit) RemoveRole(r *Role) {
	for i, have := range u.roles {
		if have == r {
			u.roles = append(u.roles[:i], u.roles[i+1:]...)
			for _, e := range r.Holders() {
				e.Unassign(r)
			}
			r.unit = nil
			return
		}
	}
}

// RoleByName returns the first role with the given name, or nil.
func (u *Unit) RoleByName(name string) *Role {
	for _, r := range u.roles {
		if r.name == name {
			return r
		}
	}
	return nil
}

// ChildByName returns the child with the given name, or nil.
func (u *Unit) ChildByName(name string) *Unit {
	for _, c := range u.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Walk visits u and every descendant in depth-first pre-order. When fn
// returns false the subtree below that unit is skipped.
func (u *Unit) Walk(fn func(*Unit) bool) {
	if u == nil || !fn(u) {
		return
	}
	for _, c := range u.children {
		c.walk(fn)
	}
}

func (u *Unit) walk(fn func(*Unit) bool) {
	if !fn(u) {
		return
	}
	for _, c := range u.children {
		c.walk(fn)
	}
}

// Descendants returns the number of units strictly below u.
func (u *Unit) Descendants() int {
	n := -1
	u.Walk(func(*Unit) bool { n++; return true })
	return n
}
