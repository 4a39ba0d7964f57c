package org

import (
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors for assignment operations.
var (
	// ErrNilRole is returned when a nil role is passed where one is required.
	ErrNilRole = errors.New("org: role is nil")
	// ErrDetachedRole is returned when assigning a role that is not
	// attached to any unit.
	ErrDetachedRole = errors.New("org: role is not attached to a unit")
	// ErrAlreadyAssigned is returned when an employee already holds the role.
	ErrAlreadyAssigned = errors.New("org: employee already holds role")
	// ErrNotAssigned is returned when unassigning a role the employee
	// does not hold.
	ErrNotAssigned = errors.New("org: employee does not hold role")
)

// Employee is a person identified by a stable random ID. Identity is
// the ID, not the name: two employees may share a name and remain
// distinct, and renaming an employee preserves every assignment.
type Employee struct {
	id    string
	name  string
	roles []*Role
}

// NewEmployee creates an employee with a freshly generated ID.
func NewEmployee(name string) *Employee {
	return &Employee{id: uuid.NewString(), name: name}
}

// RestoreEmployee creates an employee with a known ID, as read back
// from storage. An empty id gets a fresh one.
func RestoreEmployee(id, name string) *Employee {
	if id == "" {
		id = uuid.NewString()
	}
	return &Employee{id: id, name: name}
}

// ID returns the employee's stable identifier.
func (e *Employee) ID() string { return e.id }

// Name returns the employee's display name.
func (e *Employee) Name() string { return e.name }

// SetName updates the display name. Assignments are untouched.
func (e *Employee) SetName(name string) { e.name = name }

// Roles returns the roles the employee holds, in assignment order.
// The returned slice is a copy.
func (e *Employee) Roles() []*Role {
	out := make([]*Role, len(e.roles))
	copy(out, e.roles)
	return out
}

// Units returns the distinct units the employee belongs to, derived
// from the current role set in first-assignment order. Membership is
// never stored separately, so it can not drift out of sync with the
// roles.
func (e *Employee) Units() []*Unit {
	seen := make(map[*Unit]bool, len(e.roles))
	var out []*Unit
	for _, r := range e.roles {
		if r.unit != nil && !seen[r.unit] {
			seen[r.unit] = true
			out = append(out, r.unit)
		}
	}
	return out
}

// Assign gives the employee the role, updating both sides of the
// relation. The role must be attached to a unit.
func (e *Employee) Assign(r *Role) error {
	if r == nil {
		return ErrNilRole
	}
	if r.unit == nil {
		return ErrDetachedRole
	}
	if r.HeldBy(e) {
		return ErrAlreadyAssigned
	}
	e.roles = append(e.roles, r)
	r.holders = append(r.holders, e)
	return nil
}

// Unassign removes the role from the employee, updating both sides.
func (e *Employee) Unassign(r *Role) error {
	if r == nil {
		return ErrNilRole
	}
	found := false
	for i, have := range e.roles {
		if have == r {
			e.roles = append(e.roles[:i], e.roles[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return ErrNotAssigned
	}
	for i, h := range r.holders {
		if h == e {
			r.holders = append(r.holders[:i], r.holders[i+1:]...)
			break
		}
	}
	return nil
}
