// Package storagetest provides a reference chart and assertions
// shared by the codec test suites, so every format proves fidelity
// against the same tree.
package storagetest

import (
	"testing"

	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
)

// BuildChart returns the reference chart used across the codec tests:
// a Board "Acme" with a Presidente, a Department "Engineering" with a
// Direttore held by Alice, and a Group "Core" with a Membro held by
// Bob. Descriptions carry delimiter characters on purpose, to exercise
// quoting in the text formats.
func BuildChart(t *testing.T) *org.Unit {
	t.Helper()

	root := org.NewUnit(org.KindBoard, "Acme", "Consiglio, direzione \"generale\"")
	root.AddRole(org.NewRole("Presidente", "Presiede il consiglio"))

	eng := org.NewUnit(org.KindDepartment, "Engineering", "Sviluppo\nprodotto")
	dir := org.NewRole("Direttore", "Dirige il dipartimento")
	eng.AddRole(dir)

	core := org.NewUnit(org.KindGroup, "Core", "")
	member := org.NewRole("Membro", "")
	core.AddRole(member)

	mustChild(t, root, eng)
	mustChild(t, eng, core)

	alice := org.NewEmployee("Alice")
	bob := org.NewEmployee("Bob")
	mustAssign(t, alice, dir)
	mustAssign(t, bob, member)

	return root
}

// AssertChart verifies that root is a faithful copy of the chart
// built by BuildChart: same shape, kinds, roles and assignments.
// Employee IDs are checked for presence, not for specific values,
// since formats that do not persist them may regenerate IDs.
func AssertChart(t *testing.T, root *org.Unit) {
	t.Helper()

	if root == nil {
		t.Fatal("root is nil")
	}
	if root.Name() != "Acme" || root.Kind() != org.KindBoard {
		t.Fatalf("root = %s %q, want Board \"Acme\"", root.Kind(), root.Name())
	}
	if root.Description() != "Consiglio, direzione \"generale\"" {
		t.Errorf("root description = %q", root.Description())
	}
	if r := root.RoleByName("Presidente"); r == nil {
		t.Error("root has no Presidente role")
	}

	eng := root.ChildByName("Engineering")
	if eng == nil {
		t.Fatal("missing Engineering department")
	}
	if eng.Kind() != org.KindDepartment {
		t.Errorf("Engineering kind = %s", eng.Kind())
	}
	if eng.Description() != "Sviluppo\nprodotto" {
		t.Errorf("Engineering description = %q", eng.Description())
	}
	dir := eng.RoleByName("Direttore")
	if dir == nil {
		t.Fatal("Engineering has no Direttore role")
	}
	assertHolder(t, dir, "Alice")

	core := eng.ChildByName("Core")
	if core == nil {
		t.Fatal("missing Core group")
	}
	if core.Kind() != org.KindGroup {
		t.Errorf("Core kind = %s", core.Kind())
	}
	member := core.RoleByName("Membro")
	if member == nil {
		t.Fatal("Core has no Membro role")
	}
	assertHolder(t, member, "Bob")

	if vs := org.Validate(root); len(vs.Errors()) != 0 {
		t.Errorf("loaded chart has violations: %v", vs.Errors())
	}
}

func assertHolder(t *testing.T, r *org.Role, name string) {
	t.Helper()
	holders := r.Holders()
	if len(holders) != 1 {
		t.Fatalf("role %s holders = %d, want 1", r.Name(), len(holders))
	}
	e := holders[0]
	if e.Name() != name {
		t.Errorf("role %s held by %q, want %q", r.Name(), e.Name(), name)
	}
	if e.ID() == "" {
		t.Errorf("employee %s has empty ID", e.Name())
	}
	units := e.Units()
	if len(units) != 1 || units[0] != r.Unit() {
		t.Errorf("employee %s units = %v, want [%s]", e.Name(), units, r.Unit().Name())
	}
}

func mustChild(t *testing.T, parent, child *org.Unit) {
	t.Helper()
	if err := parent.AddChild(child); err != nil {
		t.Fatalf("AddChild(%s, %s): %v", parent.Name(), child.Name(), err)
	}
}

func mustAssign(t *testing.T, e *org.Employee, r *org.Role) {
	t.Helper()
	if err := e.Assign(r); err != nil {
		t.Fatalf("Assign(%s, %s): %v", e.Name(), r.Name(), err)
	}
}
