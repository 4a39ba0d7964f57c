package org

import "strings"

// Kind identifies the variant of an organizational unit.
// It is fixed at construction time and never changes afterwards.
type Kind int

const (
	// KindDepartment is a mid-level unit that may contain departments and groups.
	KindDepartment Kind = iota
	// KindGroup is a leaf unit that cannot contain sub-units.
	KindGroup
	// KindBoard is the governing unit, valid only at the root of the tree.
	KindBoard
)

// String returns the canonical external name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindBoard:
		return "Board"
	default:
		return "Department"
	}
}

// ParseKind maps an external type label to a Kind.
//
// Matching is lenient: exact names are tried first, then a case-insensitive
// substring match, so legacy files that stored "DEPARTMENT" or "board unit"
// still load. Unrecognized labels fall back to Department, and ok reports
// whether the label was actually recognized.
func ParseKind(s string) (k Kind, ok bool) {
	switch s {
	case "Department":
		return KindDepartment, true
	case "Group":
		return KindGroup, true
	case "Board":
		return KindBoard, true
	}
	upper := strings.ToUpper(s)
	switch {
	case strings.Contains(upper, "DEPARTMENT"):
		return KindDepartment, true
	case strings.Contains(upper, "GROUP"):
		return KindGroup, true
	case strings.Contains(upper, "BOARD"):
		return KindBoard, true
	}
	return KindDepartment, false
}
