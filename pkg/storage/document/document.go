// Package document implements the nested text document format, the
// primary interchange representation. A chart is one object per unit
// with its roles, each role with its employees, and the sub-units
// nested recursively, so the file mirrors the tree shape directly and
// stays hand-editable.
//
// The reader is deliberately lenient: it scans for the fields it knows
// rather than parsing the full grammar, tolerates unknown fields and
// missing sections, and recognizes the binary snapshot marker to fall
// back to the binary codec on files written by older exports.
package document

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage/binary"
)

func init() {
	storage.Register(storage.FormatDocument, func() storage.Strategy { return New() })
}

// Strategy is the nested document codec.
type Strategy struct{}

// New returns a document strategy.
func New() *Strategy { return &Strategy{} }

// Format returns [storage.FormatDocument].
func (*Strategy) Format() storage.Format { return storage.FormatDocument }

// Save renders the tree rooted at root as a nested document.
func (*Strategy) Save(ctx context.Context, root *org.Unit, path string) error {
	if root == nil {
		return orgerrors.New(orgerrors.ErrCodeInternal, "cannot save a nil chart")
	}
	var sb strings.Builder
	writeUnit(&sb, root, 0)
	sb.WriteByte('\n')
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "writing %s", path)
	}
	log.FromContext(ctx).Debug("saved document", "path", path, "units", 1+root.Descendants())
	return nil
}

// Load reads a chart document. Files carrying the binary snapshot
// marker are handed to the binary codec; anything else must start
// with an object or array opener to be parsed as a document. A parsed
// chart that breaks a structural rule fails the load.
func (*Strategy) Load(ctx context.Context, path string) (*org.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, orgerrors.Wrap(orgerrors.ErrCodeNotFound, err, "no chart at %s", path)
		}
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading %s", path)
	}

	if len(data) >= len(binary.Magic) && data[0] == binary.Magic[0] && data[1] == binary.Magic[1] {
		log.FromContext(ctx).Debug("binary snapshot marker found, delegating", "path", path)
		return binary.Decode(ctx, data)
	}

	text := string(data)
	first := firstNonSpace(text)
	if first != '{' && first != '[' {
		return nil, orgerrors.New(orgerrors.ErrCodeInvalidFormat,
			"%s does not look like a chart document (starts with %s)", path, preview(text))
	}

	objects := splitObjects(text)
	if len(objects) == 0 {
		return nil, orgerrors.New(orgerrors.ErrCodeInvalidFormat, "%s contains no unit object", path)
	}

	var issues []error
	employees := map[string]*org.Employee{}
	roots := make([]*org.Unit, 0, len(objects))
	for _, obj := range objects {
		roots = append(roots, parseUnit(obj, employees, &issues))
	}

	root := storage.InferRoot(roots)
	warnings, err := storage.Accept(root, issues)
	if err != nil {
		return nil, err
	}
	logger := log.FromContext(ctx)
	for _, w := range warnings {
		logger.Warn("recoverable chart defect", "path", path, "err", w)
	}
	return root, nil
}

// writeUnit renders one unit and its subtree at the given indent
// depth. The field layout is fixed so that documents diff cleanly.
func writeUnit(sb *strings.Builder, u *org.Unit, depth int) {
	in := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s{\n", in)
	fmt.Fprintf(sb, "%s  \"type\": \"%s\",\n", in, u.Kind())
	fmt.Fprintf(sb, "%s  \"name\": \"%s\",\n", in, escape(u.Name()))
	fmt.Fprintf(sb, "%s  \"description\": \"%s\",\n", in, escape(u.Description()))

	fmt.Fprintf(sb, "%s  \"roles\": [", in)
	roles := u.Roles()
	for i, r := range roles {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(sb, "\n%s    {\n", in)
		fmt.Fprintf(sb, "%s      \"name\": \"%s\",\n", in, escape(r.Name()))
		fmt.Fprintf(sb, "%s      \"description\": \"%s\",\n", in, escape(r.Description()))
		fmt.Fprintf(sb, "%s      \"employees\": [", in)
		for j, e := range r.Holders() {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, "\n%s        {\"id\": \"%s\", \"name\": \"%s\"}", in, escape(e.ID()), escape(e.Name()))
		}
		fmt.Fprintf(sb, "]\n%s    }", in)
	}
	fmt.Fprintf(sb, "],\n")

	fmt.Fprintf(sb, "%s  \"subUnits\": [", in)
	for i, c := range u.Children() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
		writeUnit(sb, c, depth+2)
	}
	fmt.Fprintf(sb, "]\n%s}", in)
}

// parseUnit builds a unit from one object's text, recursing into its
// sub-units. Employees are shared through the registry so an employee
// assigned in several units stays one person. Defects are appended to
// issues as coded errors for [storage.Accept] to arbitrate.
func parseUnit(obj string, employees map[string]*org.Employee, issues *[]error) *org.Unit {
	name := stringField(obj, "name")
	kind := resolveKind(stringField(obj, "type"), name, issues)
	u := org.NewUnit(kind, name, stringField(obj, "description"))

	for _, roleObj := range splitObjects(arrayContent(obj, "roles")) {
		r := org.NewRole(stringField(roleObj, "name"), stringField(roleObj, "description"))
		u.AddRole(r)
		for _, empObj := range splitObjects(arrayContent(roleObj, "employees")) {
			id := stringField(empObj, "id")
			e, ok := employees[id]
			if !ok || id == "" {
				e = org.RestoreEmployee(id, stringField(empObj, "name"))
				employees[e.ID()] = e
			}
			if err := e.Assign(r); err != nil {
				*issues = append(*issues, orgerrors.Wrap(orgerrors.ErrCodeDanglingReference, err,
					"cannot assign role %q to %q", r.Name(), e.Name()))
			}
		}
	}

	for _, childObj := range splitObjects(arrayContent(obj, "subUnits")) {
		child := parseUnit(childObj, employees, issues)
		if err := u.AddChild(child); err != nil {
			*issues = append(*issues, orgerrors.Wrap(orgerrors.ErrCodeStructuralViolation, err,
				"cannot attach unit %q under %q", child.Name(), u.Name()))
		}
	}
	return u
}

// resolveKind maps a type label to a kind, falling back to a name
// heuristic for documents written by tools that never stored a type.
func resolveKind(label, name string, issues *[]error) org.Kind {
	kind, ok := org.ParseKind(label)
	if ok {
		return kind
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, "board") || strings.Contains(lower, "comitato") {
		kind = org.KindBoard
	}
	*issues = append(*issues, orgerrors.New(orgerrors.ErrCodeStructuralWarning,
		"unit %q has unknown type %q, treated as %s", name, label, kind))
	return kind
}

func firstNonSpace(s string) byte {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return s[i]
		}
	}
	return 0
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return fmt.Sprintf("%q", s)
}
