// Package tabular implements the multi-section delimited text format.
// A file is four sections, each introduced by a "#SECTION: NAME"
// marker line and a fixed header row: the units with their parent
// references, the role definitions, the employees and the role
// assignments. Values are quoted CSV, so names and descriptions may
// contain delimiters and line breaks.
//
// Unlike the document format the tree shape is not nested in the
// file; it is rebuilt from the parent references, with the root
// chosen by the shared inference policy when the references leave
// more than one candidate.
package tabular

import (
	"context"
	"encoding/csv"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage"
)

const sectionMarker = "#SECTION:"

// Section names and their header rows, in file order.
var (
	unitsHeader       = []string{"TYPE", "ID", "NAME", "DESCRIPTION", "PARENT_ID"}
	rolesHeader       = []string{"UNIT_ID", "NAME", "DESCRIPTION"}
	employeesHeader   = []string{"ID", "NAME"}
	assignmentsHeader = []string{"EMPLOYEE_ID", "ROLE_NAME", "UNIT_ID"}
)

func init() {
	storage.Register(storage.FormatTabular, func() storage.Strategy { return New() })
}

// Strategy is the multi-section tabular codec.
type Strategy struct{}

// New returns a tabular strategy.
func New() *Strategy { return &Strategy{} }

// Format returns [storage.FormatTabular].
func (*Strategy) Format() storage.Format { return storage.FormatTabular }

// Save flattens the chart and writes the four sections.
func (*Strategy) Save(ctx context.Context, root *org.Unit, path string) error {
	if root == nil {
		return orgerrors.New(orgerrors.ErrCodeInternal, "cannot save a nil chart")
	}
	rs := storage.Collect(root)

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	writeSection(&sb, w, "UNITS", unitsHeader)
	for _, u := range rs.Units {
		w.Write([]string{u.Kind, u.ID, u.Name, u.Description, u.ParentID})
	}
	writeSection(&sb, w, "ROLES", rolesHeader)
	for _, r := range rs.Roles {
		w.Write([]string{r.UnitID, r.Name, r.Description})
	}
	writeSection(&sb, w, "EMPLOYEES", employeesHeader)
	for _, e := range rs.Employees {
		w.Write([]string{e.ID, e.Name})
	}
	writeSection(&sb, w, "ASSIGNMENTS", assignmentsHeader)
	for _, a := range rs.Assignments {
		w.Write([]string{a.EmployeeID, a.RoleName, a.UnitID})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeInternal, err, "encoding tabular data")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "writing %s", path)
	}
	log.FromContext(ctx).Debug("saved tabular chart",
		"path", path, "units", len(rs.Units), "employees", len(rs.Employees))
	return nil
}

// writeSection flushes pending rows, then emits the marker and
// header for the next section.
func writeSection(sb *strings.Builder, w *csv.Writer, name string, header []string) {
	w.Flush()
	sb.WriteString(sectionMarker + " " + name + "\n")
	w.Write(header)
}

// Load reads a tabular chart. Defective rows are skipped and logged;
// the load fails when the file is not tabular at all, yields no
// units, or describes a chart breaking a structural rule.
func (*Strategy) Load(ctx context.Context, path string) (*org.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, orgerrors.Wrap(orgerrors.ErrCodeNotFound, err, "no chart at %s", path)
		}
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading %s", path)
	}

	root, issues, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	logger := log.FromContext(ctx)
	for _, issue := range issues {
		logger.Warn("skipped defective row", "path", path, "err", issue)
	}
	if root == nil {
		return nil, orgerrors.New(orgerrors.ErrCodeInvalidFormat, "%s contains no units", path)
	}
	return root, nil
}

// Parse reads tabular text into a chart. It returns the inferred
// root together with one coded issue per skipped defect. Text that is
// not tabular at all, or a chart breaking a structural rule, yields
// an error instead.
func Parse(text string) (*org.Unit, []error, error) {
	sections, err := splitSections(text)
	if err != nil {
		return nil, nil, err
	}

	var (
		rs         storage.RecordSet
		issues     []error
		headerSeen bool
	)
	for _, sec := range sections {
		switch sec.name {
		case "UNITS":
			rows, ok, errs := sec.rows(unitsHeader)
			headerSeen = headerSeen || ok
			issues = append(issues, errs...)
			for _, row := range rows {
				rs.Units = append(rs.Units, storage.UnitRecord{
					Kind: row[0], ID: row[1], Name: row[2], Description: row[3], ParentID: row[4],
				})
			}
		case "ROLES":
			rows, ok, errs := sec.rows(rolesHeader)
			headerSeen = headerSeen || ok
			issues = append(issues, errs...)
			for _, row := range rows {
				rs.Roles = append(rs.Roles, storage.RoleRecord{
					UnitID: row[0], Name: row[1], Description: row[2],
				})
			}
		case "EMPLOYEES":
			rows, ok, errs := sec.rows(employeesHeader)
			headerSeen = headerSeen || ok
			issues = append(issues, errs...)
			for _, row := range rows {
				rs.Employees = append(rs.Employees, storage.EmployeeRecord{ID: row[0], Name: row[1]})
			}
		case "ASSIGNMENTS":
			rows, ok, errs := sec.rows(assignmentsHeader)
			headerSeen = headerSeen || ok
			issues = append(issues, errs...)
			for _, row := range rows {
				rs.Assignments = append(rs.Assignments, storage.AssignmentRecord{
					EmployeeID: row[0], RoleName: row[1], UnitID: row[2],
				})
			}
		default:
			issues = append(issues, orgerrors.New(orgerrors.ErrCodeInvalidFormat,
				"unknown section %q skipped", sec.name))
		}
	}
	if !headerSeen {
		return nil, nil, orgerrors.New(orgerrors.ErrCodeInvalidFormat,
			"no section carries a recognized header row")
	}

	root, linkIssues := storage.Link(&rs)
	warnings, err := storage.Accept(root, append(issues, linkIssues...))
	if err != nil {
		return nil, nil, err
	}
	return root, warnings, nil
}

// section is one marker-delimited block of the file.
type section struct {
	name string
	body string
}

// splitSections cuts the text at marker lines. A marker inside a
// quoted value does not cut: quote parity is tracked per line, and
// doubled quotes inside quoted values toggle twice, so parity stays
// correct without parsing the rows here.
func splitSections(text string) ([]section, error) {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if !strings.HasPrefix(trimmed, sectionMarker) {
		return nil, orgerrors.New(orgerrors.ErrCodeInvalidFormat,
			"data does not start with a %q marker", sectionMarker)
	}

	var (
		sections []section
		body     strings.Builder
		current  string
		inQuotes bool
	)
	flush := func() {
		if current != "" {
			sections = append(sections, section{name: current, body: body.String()})
		}
		body.Reset()
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		if !inQuotes && strings.HasPrefix(strings.TrimSpace(line), sectionMarker) {
			flush()
			current = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), sectionMarker))
			continue
		}
		inQuotes = (inQuotes != (strings.Count(line, `"`)%2 == 1))
		body.WriteString(line)
	}
	flush()
	return sections, nil
}

// rows parses the section body, validates the header and returns the
// data rows that have the right width. Defective rows become issues;
// headerOK reports whether the section opened with its header row.
func (s section) rows(header []string) (out [][]string, headerOK bool, issues []error) {
	r := csv.NewReader(strings.NewReader(s.body))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, false, []error{orgerrors.Wrap(orgerrors.ErrCodeInvalidFormat, err,
			"unreadable rows in section %s", s.name)}
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	start := 0
	if matchesHeader(records[0], header) {
		start = 1
		headerOK = true
	} else {
		issues = append(issues, orgerrors.New(orgerrors.ErrCodeInvalidFormat,
			"section %s is missing its header row", s.name))
	}

	for _, row := range records[start:] {
		if len(row) != len(header) {
			issues = append(issues, orgerrors.New(orgerrors.ErrCodeInvalidFormat,
				"section %s row has %d fields, want %d", s.name, len(row), len(header)))
			continue
		}
		out = append(out, row)
	}
	return out, headerOK, issues
}

func matchesHeader(row, header []string) bool {
	if len(row) != len(header) {
		return false
	}
	for i := range row {
		if !strings.EqualFold(strings.TrimSpace(row[i]), header[i]) {
			return false
		}
	}
	return true
}
