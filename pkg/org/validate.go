package org

import (
	"fmt"
	"strings"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
)

// Severity classifies a validation finding.
type Severity int

const (
	// SeverityError marks a structural rule violation. A tree with
	// error findings should not be persisted.
	SeverityError Severity = iota
	// SeverityWarning marks a suspicious but tolerated situation,
	// such as a role name outside the catalog.
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Violation is a single validation finding, located by the slash
// separated path of unit names from the root.
type Violation struct {
	Severity Severity
	Path     string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Severity, v.Path, v.Message)
}

// Violations is the ordered result of a validation pass.
type Violations []Violation

// Errors returns only the hard findings.
func (vs Violations) Errors() Violations {
	var out Violations
	for _, v := range vs {
		if v.Severity == SeverityError {
			out = append(out, v)
		}
	}
	return out
}

// Warnings returns only the soft findings.
func (vs Violations) Warnings() Violations {
	var out Violations
	for _, v := range vs {
		if v.Severity == SeverityWarning {
			out = append(out, v)
		}
	}
	return out
}

// Err converts the hard findings into a coded error, or returns nil
// when the tree has none.
func (vs Violations) Err() error {
	errs := vs.Errors()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, v := range errs {
		msgs[i] = v.String()
	}
	return orgerrors.New(orgerrors.ErrCodeStructuralViolation,
		"chart has %d structural violation(s): %s", len(errs), strings.Join(msgs, "; "))
}

// Validate checks a whole tree against the structural rules and the
// role catalog. It walks every unit and reports, in pre-order:
//
//   - duplicate sibling names (error)
//   - children under a Group (error)
//   - a Board anywhere below the root (error)
//   - a catalog role defined on an incompatible unit kind (error)
//   - a role name absent from the catalog (warning)
//
// Roles defined on a root Board are exempt from the kind check, since
// charts imported from external systems commonly attach company-wide
// positions there.
func Validate(root *Unit) Violations {
	if root == nil {
		return Violations{{Severity: SeverityError, Path: "/", Message: "chart has no root unit"}}
	}
	var vs Violations
	validateUnit(root, "/"+root.name, true, &vs)
	return vs
}

func validateUnit(u *Unit, path string, isRoot bool, vs *Violations) {
	if !isRoot && u.kind == KindBoard {
		*vs = append(*vs, Violation{
			Severity: SeverityError,
			Path:     path,
			Message:  "board unit is only allowed at the root",
		})
	}
	if u.kind == KindGroup && len(u.children) > 0 {
		*vs = append(*vs, Violation{
			Severity: SeverityError,
			Path:     path,
			Message:  fmt.Sprintf("group has %d sub-unit(s)", len(u.children)),
		})
	}

	seen := make(map[string]bool, len(u.children))
	for _, c := range u.children {
		if seen[c.name] {
			*vs = append(*vs, Violation{
				Severity: SeverityError,
				Path:     path + "/" + c.name,
				Message:  "sibling unit with the same name already exists",
			})
		}
		seen[c.name] = true
	}

	rootBoard := isRoot && u.kind == KindBoard
	for _, r := range u.roles {
		entry, known := LookupRole(r.name)
		switch {
		case !known:
			*vs = append(*vs, Violation{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("role %q is not in the catalog", r.name),
			})
		case !entry.ValidFor(u.kind) && !rootBoard:
			*vs = append(*vs, Violation{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("role %q is not valid for a %s", r.name, u.kind),
			})
		}
	}

	for _, c := range u.children {
		validateUnit(c, path+"/"+c.name, false, vs)
	}
}

// CheckAddUnit reports whether attaching a new unit with the given
// kind and name below parent would keep the tree valid, without
// mutating anything.
func CheckAddUnit(parent *Unit, kind Kind, name string) error {
	if parent == nil {
		return ErrNilUnit
	}
	if parent.kind == KindGroup {
		return ErrGroupChildren
	}
	if kind == KindBoard {
		return ErrBoardPlacement
	}
	for _, sib := range parent.children {
		if sib.name == name {
			return ErrDuplicateName
		}
	}
	return nil
}

// CheckAddRole reports whether a role with the given name is
// acceptable on the unit. Catalog roles must match the unit kind;
// unknown names pass, mirroring the warning-only rule of Validate.
func CheckAddRole(u *Unit, name string) error {
	if u == nil {
		return ErrNilUnit
	}
	entry, known := LookupRole(name)
	if !known {
		return nil
	}
	if u.kind == KindBoard && u.parent == nil {
		return nil
	}
	if !entry.ValidFor(u.kind) {
		return orgerrors.New(orgerrors.ErrCodeStructuralViolation,
			"role %q is not valid for a %s", name, u.kind)
	}
	return nil
}

// CheckAssign reports whether the employee may take the role.
func CheckAssign(e *Employee, r *Role) error {
	if r == nil {
		return ErrNilRole
	}
	if r.unit == nil {
		return ErrDetachedRole
	}
	if r.HeldBy(e) {
		return ErrAlreadyAssigned
	}
	return nil
}
