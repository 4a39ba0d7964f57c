package org

import (
	"strings"
	"testing"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
)

// rawChild attaches without the AddChild guards, to build trees that
// only a buggy importer could produce.
func rawChild(parent, child *Unit) {
	child.parent = parent
	parent.children = append(parent.children, child)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		build        func() *Unit
		wantErrors   int
		wantWarnings int
		wantContains string
	}{
		{
			name: "ValidTree",
			build: func() *Unit {
				root := NewUnit(KindBoard, "Acme", "")
				root.AddRole(NewRole("Presidente", ""))
				eng := NewUnit(KindDepartment, "Engineering", "")
				eng.AddRole(NewRole("Direttore", ""))
				core := NewUnit(KindGroup, "Core", "")
				core.AddRole(NewRole("Membro", ""))
				rawChild(root, eng)
				rawChild(eng, core)
				return root
			},
		},
		{
			name:       "NilRoot",
			build:      func() *Unit { return nil },
			wantErrors: 1,
		},
		{
			name: "DuplicateSiblings",
			build: func() *Unit {
				root := NewUnit(KindBoard, "Acme", "")
				rawChild(root, NewUnit(KindDepartment, "Engineering", ""))
				rawChild(root, NewUnit(KindDepartment, "Engineering", ""))
				return root
			},
			wantErrors:   1,
			wantContains: "same name",
		},
		{
			name: "GroupWithChildren",
			build: func() *Unit {
				root := NewUnit(KindDepartment, "Engineering", "")
				core := NewUnit(KindGroup, "Core", "")
				rawChild(root, core)
				rawChild(core, NewUnit(KindGroup, "Inner", ""))
				return root
			},
			wantErrors:   1,
			wantContains: "sub-unit",
		},
		{
			name: "NestedBoard",
			build: func() *Unit {
				root := NewUnit(KindBoard, "Acme", "")
				rawChild(root, NewUnit(KindBoard, "Shadow", ""))
				return root
			},
			wantErrors:   1,
			wantContains: "root",
		},
		{
			name: "RoleOnWrongKind",
			build: func() *Unit {
				root := NewUnit(KindDepartment, "Engineering", "")
				root.AddRole(NewRole("Presidente", ""))
				return root
			},
			wantErrors:   1,
			wantContains: "not valid",
		},
		{
			name: "UnknownRoleWarns",
			build: func() *Unit {
				root := NewUnit(KindDepartment, "Engineering", "")
				root.AddRole(NewRole("Wizard", ""))
				return root
			},
			wantWarnings: 1,
			wantContains: "catalog",
		},
		{
			name: "RootBoardExemptFromRoleKind",
			build: func() *Unit {
				root := NewUnit(KindBoard, "Acme", "")
				root.AddRole(NewRole("Direttore", ""))
				return root
			},
		},
		{
			name: "SharedRoleNameAcrossKinds",
			build: func() *Unit {
				root := NewUnit(KindDepartment, "Engineering", "")
				root.AddRole(NewRole("Consigliere", ""))
				core := NewUnit(KindGroup, "Core", "")
				core.AddRole(NewRole("Consigliere", ""))
				rawChild(root, core)
				return root
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := Validate(tt.build())

			if got := len(vs.Errors()); got != tt.wantErrors {
				t.Errorf("errors = %d (%v), want %d", got, vs.Errors(), tt.wantErrors)
			}
			if got := len(vs.Warnings()); got != tt.wantWarnings {
				t.Errorf("warnings = %d (%v), want %d", got, vs.Warnings(), tt.wantWarnings)
			}
			if tt.wantContains != "" {
				found := false
				for _, v := range vs {
					if strings.Contains(v.Message, tt.wantContains) {
						found = true
					}
				}
				if !found {
					t.Errorf("no finding contains %q in %v", tt.wantContains, vs)
				}
			}

			err := vs.Err()
			if tt.wantErrors > 0 {
				if !orgerrors.Is(err, orgerrors.ErrCodeStructuralViolation) {
					t.Errorf("Err() = %v, want code %s", err, orgerrors.ErrCodeStructuralViolation)
				}
			} else if err != nil {
				t.Errorf("Err() = %v, want nil", err)
			}
		})
	}
}

func TestCheckAddRole(t *testing.T) {
	dept := NewUnit(KindDepartment, "Engineering", "")
	if err := CheckAddRole(dept, "Direttore"); err != nil {
		t.Errorf("catalog role on matching kind: %v", err)
	}
	if err := CheckAddRole(dept, "direttore"); err != nil {
		t.Errorf("case-insensitive lookup: %v", err)
	}
	if err := CheckAddRole(dept, "Wizard"); err != nil {
		t.Errorf("unknown role should pass: %v", err)
	}
	if err := CheckAddRole(dept, "Presidente"); !orgerrors.Is(err, orgerrors.ErrCodeStructuralViolation) {
		t.Errorf("board role on department = %v, want STRUCTURAL_VIOLATION", err)
	}

	rootBoard := NewUnit(KindBoard, "Acme", "")
	if err := CheckAddRole(rootBoard, "Membro"); err != nil {
		t.Errorf("root board exemption: %v", err)
	}
}

func TestCheckAddUnit(t *testing.T) {
	board := NewUnit(KindBoard, "Acme", "")
	if err := board.AddChild(NewUnit(KindDepartment, "Engineering", "")); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	if err := CheckAddUnit(board, KindDepartment, "Operations"); err != nil {
		t.Errorf("valid add = %v", err)
	}
	if err := CheckAddUnit(board, KindDepartment, "Engineering"); err != ErrDuplicateName {
		t.Errorf("duplicate name = %v, want %v", err, ErrDuplicateName)
	}
	if err := CheckAddUnit(board, KindBoard, "Shadow"); err != ErrBoardPlacement {
		t.Errorf("nested board = %v, want %v", err, ErrBoardPlacement)
	}
	group := NewUnit(KindGroup, "Core", "")
	if err := CheckAddUnit(group, KindGroup, "Inner"); err != ErrGroupChildren {
		t.Errorf("child under group = %v, want %v", err, ErrGroupChildren)
	}
	if err := CheckAddUnit(nil, KindGroup, "X"); err != ErrNilUnit {
		t.Errorf("nil parent = %v, want %v", err, ErrNilUnit)
	}

	// The check never mutates.
	if got := len(board.Children()); got != 1 {
		t.Errorf("children after checks = %d, want 1", got)
	}
}

func TestCheckAssign(t *testing.T) {
	g := NewUnit(KindGroup, "Core", "")
	member := NewRole("Membro", "")
	g.AddRole(member)
	bob := NewEmployee("Bob")

	if err := CheckAssign(bob, member); err != nil {
		t.Errorf("valid assign = %v", err)
	}
	if err := bob.Assign(member); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := CheckAssign(bob, member); err != ErrAlreadyAssigned {
		t.Errorf("repeat assign = %v, want %v", err, ErrAlreadyAssigned)
	}
	if err := CheckAssign(bob, NewRole("Loose", "")); err != ErrDetachedRole {
		t.Errorf("detached role = %v, want %v", err, ErrDetachedRole)
	}
	if err := CheckAssign(bob, nil); err != ErrNilRole {
		t.Errorf("nil role = %v, want %v", err, ErrNilRole)
	}
}

func TestCatalogFor(t *testing.T) {
	for _, e := range CatalogFor(KindGroup) {
		if !e.ValidFor(KindGroup) {
			t.Errorf("entry %q not valid for group", e.Name)
		}
	}
	if _, ok := LookupRole("chief technology officer"); !ok {
		t.Error("case-insensitive catalog lookup failed")
	}
	if _, ok := LookupRole("Imperatore"); ok {
		t.Error("unexpected catalog hit")
	}
}
