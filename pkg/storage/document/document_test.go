package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage/binary"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage/storagetest"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chart.json")
	s := New()

	if err := s.Save(ctx, storagetest.BuildChart(t), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	root, err := s.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	storagetest.AssertChart(t, root)
}

func TestRoundTripPreservesEmployeeIDs(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chart.json")
	chart := storagetest.BuildChart(t)
	wantID := chart.ChildByName("Engineering").RoleByName("Direttore").Holders()[0].ID()

	if err := New().Save(ctx, chart, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	root, err := New().Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := root.ChildByName("Engineering").RoleByName("Direttore").Holders()[0]
	if got.ID() != wantID {
		t.Errorf("ID = %q, want %q", got.ID(), wantID)
	}
}

func TestLoadSharedEmployee(t *testing.T) {
	// The same person holds roles in two units; the document stores
	// them twice by ID and the loader must rebuild one employee.
	doc := `{
  "type": "Board",
  "name": "Acme",
  "description": "",
  "roles": [
    {"name": "Presidente", "description": "", "employees": [{"id": "emp-1", "name": "Alice"}]}
  ],
  "subUnits": [
    {
      "type": "Department",
      "name": "Engineering",
      "description": "",
      "roles": [
        {"name": "Direttore", "description": "", "employees": [{"id": "emp-1", "name": "Alice"}]}
      ],
      "subUnits": []
    }
  ]
}`
	root := loadString(t, doc)

	pres := root.RoleByName("Presidente")
	dir := root.ChildByName("Engineering").RoleByName("Direttore")
	if pres == nil || dir == nil {
		t.Fatal("roles missing after load")
	}
	if pres.Holders()[0] != dir.Holders()[0] {
		t.Error("shared employee rebuilt as two distinct people")
	}
	if got := len(pres.Holders()[0].Units()); got != 2 {
		t.Errorf("employee units = %d, want 2", got)
	}
}

func TestLoadBinaryFallback(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chart.json")
	if err := binary.New().Save(ctx, storagetest.BuildChart(t), path); err != nil {
		t.Fatalf("binary Save: %v", err)
	}

	root, err := New().Load(ctx, path)
	if err != nil {
		t.Fatalf("Load with snapshot marker: %v", err)
	}
	storagetest.AssertChart(t, root)
}

func TestLoadRejectsNonDocument(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Prose", "not a chart at all"},
		{"Tabular", "#SECTION: UNITS\nTYPE,ID,NAME"},
		{"Empty", ""},
		{"OnlyWhitespace", "  \n\t "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := New().Load(context.Background(), path)
			if !orgerrors.Is(err, orgerrors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}

	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	if !orgerrors.Is(err, orgerrors.ErrCodeNotFound) {
		t.Errorf("missing file err = %v, want NOT_FOUND", err)
	}
}

func TestLoadUnknownType(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantKind org.Kind
	}{
		{
			name:     "BoardFromName",
			doc:      `{"type": "Consiglio", "name": "Executive Board", "description": "", "roles": [], "subUnits": []}`,
			wantKind: org.KindBoard,
		},
		{
			name:     "ComitatoFromName",
			doc:      `{"type": "", "name": "Comitato Direttivo", "description": "", "roles": [], "subUnits": []}`,
			wantKind: org.KindBoard,
		},
		{
			name:     "DepartmentFallback",
			doc:      `{"type": "Mystery", "name": "Logistica", "description": "", "roles": [], "subUnits": []}`,
			wantKind: org.KindDepartment,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := loadString(t, tt.doc)
			if root.Kind() != tt.wantKind {
				t.Errorf("kind = %s, want %s", root.Kind(), tt.wantKind)
			}
		})
	}
}

func TestLoadMultipleTopLevelObjects(t *testing.T) {
	doc := `[
  {"type": "Group", "name": "Stray", "description": "", "roles": [], "subUnits": []},
  {"type": "Board", "name": "Acme Corp", "description": "", "roles": [], "subUnits": []}
]`
	root := loadString(t, doc)
	if root.Name() != "Acme Corp" {
		t.Errorf("root = %q, want the hinted candidate", root.Name())
	}
}

func TestLoadRejectsGroupWithChild(t *testing.T) {
	// A group with a nested child is structurally invalid and the
	// whole load fails, naming the offending group.
	doc := `{
  "type": "Department", "name": "Engineering", "description": "", "roles": [],
  "subUnits": [
    {"type": "Group", "name": "Core", "description": "", "roles": [],
     "subUnits": [{"type": "Group", "name": "Inner", "description": "", "roles": [], "subUnits": []}]}
  ]
}`
	path := filepath.Join(t.TempDir(), "chart.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New().Load(context.Background(), path)
	if !orgerrors.Is(err, orgerrors.ErrCodeStructuralViolation) {
		t.Fatalf("err = %v, want STRUCTURAL_VIOLATION", err)
	}
	if !strings.Contains(err.Error(), "Core") {
		t.Errorf("error does not name the offending group: %v", err)
	}
}

func TestScanner(t *testing.T) {
	obj := `{"name": "He said \"ciao\"", "note": "brackets ] } in text", "items": [{"name": "a"}, {"name": "b"}]}`

	if got := stringField(obj, "name"); got != `He said "ciao"` {
		t.Errorf("stringField = %q", got)
	}
	if got := stringField(obj, "missing"); got != "" {
		t.Errorf("missing field = %q, want empty", got)
	}

	arr := arrayContent(obj, "items")
	if !strings.HasPrefix(arr, "[") || !strings.HasSuffix(arr, "]") {
		t.Fatalf("arrayContent = %q", arr)
	}
	if got := len(splitObjects(arr)); got != 2 {
		t.Errorf("objects in array = %d, want 2", got)
	}

	if got := arrayContent(obj, "absent"); got != "" {
		t.Errorf("absent array = %q, want empty", got)
	}
	if got := arrayContent(`{"items": [1, 2`, "items"); got != "" {
		t.Errorf("unterminated array = %q, want empty", got)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{
		"",
		"plain",
		`with "quotes" and \backslash\`,
		"multi\nline\twith\rcontrol",
	} {
		if got := unescape(escape(s)); got != s {
			t.Errorf("unescape(escape(%q)) = %q", s, got)
		}
	}
}

func loadString(t *testing.T, doc string) *org.Unit {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	root, err := New().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return root
}
