package storage

import (
	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
)

// UnitRecord is one unit of a flattened chart.
type UnitRecord struct {
	Kind        string
	ID          string
	Name        string
	Description string
	ParentID    string
}

// RoleRecord is one role definition, keyed by its owning unit's ID.
type RoleRecord struct {
	UnitID      string
	Name        string
	Description string
}

// EmployeeRecord is one employee.
type EmployeeRecord struct {
	ID   string
	Name string
}

// AssignmentRecord links an employee to a role definition.
type AssignmentRecord struct {
	EmployeeID string
	RoleName   string
	UnitID     string
}

// RecordSet is a whole chart flattened into four ordered record
// lists. It is the interchange form between the tree model and the
// flat codecs.
type RecordSet struct {
	Units       []UnitRecord
	Roles       []RoleRecord
	Employees   []EmployeeRecord
	Assignments []AssignmentRecord
}

// Collect flattens the tree rooted at root into a RecordSet. Units
// appear in depth-first pre-order, roles and assignments follow their
// unit's order, and employees are deduplicated by ID in first-seen
// order, so collecting the same tree twice yields identical sets.
func Collect(root *org.Unit) *RecordSet {
	rs := &RecordSet{}
	if root == nil {
		return rs
	}
	seenEmp := make(map[string]bool)
	root.Walk(func(u *org.Unit) bool {
		id := UnitID(u)
		parentID := ""
		if p := u.Parent(); p != nil {
			parentID = UnitID(p)
		}
		rs.Units = append(rs.Units, UnitRecord{
			Kind:        u.Kind().String(),
			ID:          id,
			Name:        u.Name(),
			Description: u.Description(),
			ParentID:    parentID,
		})
		for _, r := range u.Roles() {
			rs.Roles = append(rs.Roles, RoleRecord{
				UnitID:      id,
				Name:        r.Name(),
				Description: r.Description(),
			})
			for _, e := range r.Holders() {
				if !seenEmp[e.ID()] {
					seenEmp[e.ID()] = true
					rs.Employees = append(rs.Employees, EmployeeRecord{ID: e.ID(), Name: e.Name()})
				}
				rs.Assignments = append(rs.Assignments, AssignmentRecord{
					EmployeeID: e.ID(),
					RoleName:   r.Name(),
					UnitID:     id,
				})
			}
		}
		return true
	})
	return rs
}

// Link rebuilds a tree from a RecordSet. Defects in the data do not
// abort the link step: a dangling parent, role or employee reference
// and a structurally invalid attachment are each reported as one
// coded issue, and the rest of the chart is linked normally. The root
// is chosen by [InferRoot]. Callers pass the result through [Accept],
// which decides which issues are fatal.
//
// Link returns a nil unit only when the set contains no units at all.
func Link(rs *RecordSet) (*org.Unit, []error) {
	var issues []error
	if rs == nil || len(rs.Units) == 0 {
		return nil, issues
	}

	units := make(map[string]*org.Unit, len(rs.Units))
	order := make([]*org.Unit, 0, len(rs.Units))
	for _, ur := range rs.Units {
		kind, ok := org.ParseKind(ur.Kind)
		if !ok {
			issues = append(issues, orgerrors.New(orgerrors.ErrCodeStructuralWarning,
				"unit %q has unknown type %q, treated as department", ur.Name, ur.Kind))
		}
		if _, dup := units[ur.ID]; dup {
			issues = append(issues, orgerrors.New(orgerrors.ErrCodeDanglingReference,
				"duplicate unit id %q, later record skipped", ur.ID))
			continue
		}
		u := org.NewUnit(kind, ur.Name, ur.Description)
		units[ur.ID] = u
		order = append(order, u)
	}

	// Second pass links parents once every unit exists, so record
	// order in the source never matters.
	for _, ur := range rs.Units {
		u := units[ur.ID]
		if u == nil || ur.ParentID == "" {
			continue
		}
		parent, ok := units[ur.ParentID]
		if !ok {
			issues = append(issues, orgerrors.New(orgerrors.ErrCodeDanglingReference,
				"unit %q references missing parent %q", ur.Name, ur.ParentID))
			continue
		}
		if err := parent.AddChild(u); err != nil {
			issues = append(issues, orgerrors.Wrap(orgerrors.ErrCodeStructuralViolation, err,
				"cannot attach unit %q under %q", u.Name(), parent.Name()))
		}
	}

	roles := make(map[string]*org.Role, len(rs.Roles))
	for _, rr := range rs.Roles {
		u, ok := units[rr.UnitID]
		if !ok {
			issues = append(issues, orgerrors.New(orgerrors.ErrCodeDanglingReference,
				"role %q references missing unit %q", rr.Name, rr.UnitID))
			continue
		}
		r := org.NewRole(rr.Name, rr.Description)
		u.AddRole(r)
		roles[RoleKey(rr.UnitID, rr.Name)] = r
	}

	employees := make(map[string]*org.Employee, len(rs.Employees))
	for _, er := range rs.Employees {
		if _, dup := employees[er.ID]; dup {
			continue
		}
		employees[er.ID] = org.RestoreEmployee(er.ID, er.Name)
	}

	for _, ar := range rs.Assignments {
		e, ok := employees[ar.EmployeeID]
		if !ok {
			issues = append(issues, orgerrors.New(orgerrors.ErrCodeDanglingReference,
				"assignment references missing employee %q", ar.EmployeeID))
			continue
		}
		r, ok := roles[RoleKey(ar.UnitID, ar.RoleName)]
		if !ok {
			issues = append(issues, orgerrors.New(orgerrors.ErrCodeDanglingReference,
				"assignment of %q references missing role %q in unit %q",
				e.Name(), ar.RoleName, ar.UnitID))
			continue
		}
		if err := e.Assign(r); err != nil {
			issues = append(issues, orgerrors.Wrap(orgerrors.ErrCodeDanglingReference, err,
				"cannot assign role %q to %q", ar.RoleName, e.Name()))
		}
	}

	return InferRoot(order), issues
}

// Accept finalizes a freshly linked chart. Dangling references and
// soft findings come back as warnings for the caller to log; a hard
// finding aborts the load: the first structural violation among the
// link issues, or an error-severity finding from the tree validator.
// Unknown role names stay soft, and roles on a root Board are exempt
// from the kind check, both per the validator's rules.
func Accept(root *org.Unit, issues []error) ([]error, error) {
	warnings := make([]error, 0, len(issues))
	for _, issue := range issues {
		if orgerrors.Is(issue, orgerrors.ErrCodeStructuralViolation) {
			return nil, issue
		}
		warnings = append(warnings, issue)
	}
	if root == nil {
		return warnings, nil
	}

	vs := org.Validate(root)
	for _, v := range vs.Warnings() {
		warnings = append(warnings, orgerrors.New(orgerrors.ErrCodeStructuralWarning,
			"%s: %s", v.Path, v.Message))
	}
	if err := vs.Err(); err != nil {
		return nil, err
	}
	return warnings, nil
}
