package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage"
)

// runCommand executes the CLI with args and captures stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDemoAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")

	if _, err := runCommand(t, "demo", path); err != nil {
		t.Fatalf("demo: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("demo wrote nothing: %v", err)
	}

	out, err := runCommand(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Acme Corp", "Engineering", "Core", "employees"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output is missing %q:\n%s", want, out)
		}
	}
}

func TestConvertAcrossFormats(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "chart.json")
	if _, err := runCommand(t, "demo", src); err != nil {
		t.Fatalf("demo: %v", err)
	}

	// Chain through every format and back to a document.
	steps := []string{
		filepath.Join(dir, "chart.csv"),
		filepath.Join(dir, "chart.db"),
		filepath.Join(dir, "chart.ser"),
		filepath.Join(dir, "chart2.json"),
	}
	prev := src
	for _, next := range steps {
		if _, err := runCommand(t, "convert", prev, next); err != nil {
			t.Fatalf("convert %s -> %s: %v", prev, next, err)
		}
		prev = next
	}

	out, err := runCommand(t, "validate", prev)
	if err != nil {
		t.Fatalf("validate after chain: %v\n%s", err, out)
	}
	if !strings.Contains(out, "chart is valid") {
		t.Errorf("validate output = %q", out)
	}
}

func TestValidateFailsOnViolations(t *testing.T) {
	// A board-only role on a department is a hard violation; the
	// load itself reports it.
	path := filepath.Join(t.TempDir(), "bad.csv")
	data := `#SECTION: UNITS
TYPE,ID,NAME,DESCRIPTION,PARENT_ID
Department,dep_eng_1,Engineering,,
#SECTION: ROLES
UNIT_ID,NAME,DESCRIPTION
dep_eng_1,Presidente,
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "validate", path)
	if !orgerrors.Is(err, orgerrors.ErrCodeStructuralViolation) {
		t.Fatalf("err = %v, want STRUCTURAL_VIOLATION\n%s", err, out)
	}
}

func TestVisualizeDOT(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "chart.json")
	if _, err := runCommand(t, "demo", src); err != nil {
		t.Fatalf("demo: %v", err)
	}

	out, err := runCommand(t, "visualize", src, "--to", "dot")
	if err != nil {
		t.Fatalf("visualize: %v", err)
	}
	if !strings.Contains(out, "digraph orgchart") {
		t.Errorf("dot output = %.60q", out)
	}
}

func TestConvertRejectsUnknownFormat(t *testing.T) {
	_, err := runCommand(t, "convert", "in.yaml", "out.json")
	if !orgerrors.Is(err, orgerrors.ErrCodeUnsupportedFormat) {
		t.Fatalf("err = %v, want UNSUPPORTED_FORMAT", err)
	}
}

func TestStrategyFor(t *testing.T) {
	s, err := strategyFor("chart.csv", "")
	if err != nil || s.Format() != storage.FormatTabular {
		t.Errorf("extension inference = %v, %v", s, err)
	}

	s, err = strategyFor("chart.csv", "document")
	if err != nil || s.Format() != storage.FormatDocument {
		t.Errorf("flag override = %v, %v", s, err)
	}

	// No extension falls back to the configured default format.
	s, err = strategyFor("chartfile", "")
	if err != nil || s.Format() != storage.FormatDocument {
		t.Errorf("config default = %v, %v", s, err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `format = "tabular"
verbose = true

[visualize]
format = "png"
detailed = true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got.Format != "tabular" || !got.Verbose {
		t.Errorf("config = %+v", got)
	}
	if got.Visualize.Format != "png" || !got.Visualize.Detailed {
		t.Errorf("visualize config = %+v", got.Visualize)
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("explicit missing config should error")
	}
}

func TestDemoChartIsValid(t *testing.T) {
	root := demoChart()
	rs := storage.Collect(root)
	if len(rs.Units) != 4 || len(rs.Employees) != 6 {
		t.Errorf("demo chart has %d units, %d employees", len(rs.Units), len(rs.Employees))
	}
	if len(rs.Assignments) != len(rs.Employees) {
		t.Errorf("assignments = %d, want one per employee", len(rs.Assignments))
	}
	if vs := org.Validate(root); vs.Err() != nil || len(vs.Warnings()) != 0 {
		t.Errorf("demo chart has findings: %v", vs)
	}
}

func TestVersionOutput(t *testing.T) {
	out, err := runCommand(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	for _, want := range []string{"orgchart", "version:", "commit:", "built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output is missing %q:\n%s", want, out)
		}
	}
}
