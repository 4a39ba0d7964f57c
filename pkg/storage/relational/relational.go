// Package relational implements the embedded SQLite representation.
// The chart is flattened into four tables mirroring the flat record
// sets: units with parent references, role definitions, employees and
// the many-to-many role assignments. Saving replaces the whole
// database content in one transaction, loading rebuilds the tree from
// the rows.
//
// A destination that cannot serve a chart, whether a corrupt or
// non-database file or a database with no rows yet, loads as a
// minimal default structure with a logged reason instead of failing,
// so an application can always start from a usable chart.
package relational

import (
	"context"
	"database/sql"
	"os"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage"
)

// sqliteHeader is the 16 byte magic prefix of every SQLite database
// file.
var sqliteHeader = []byte("SQLite format 3\x00")

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS units (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		type        TEXT NOT NULL,
		parent_id   TEXT REFERENCES units(id)
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		unit_id     TEXT NOT NULL REFERENCES units(id)
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employee_roles (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		role_id     TEXT NOT NULL REFERENCES roles(id),
		PRIMARY KEY (employee_id, role_id)
	)`,
}

func init() {
	storage.Register(storage.FormatRelational, func() storage.Strategy { return New() })
}

// Strategy is the SQLite codec.
type Strategy struct{}

// New returns a relational strategy.
func New() *Strategy { return &Strategy{} }

// Format returns [storage.FormatRelational].
func (*Strategy) Format() storage.Format { return storage.FormatRelational }

// roleID keys a role row. Role names are unique per unit, so the pair
// forms a stable primary key across saves.
func roleID(unitID, roleName string) string {
	return unitID + ":" + roleName
}

// Save writes the chart into the database at path, creating the file
// and schema as needed and replacing any previous chart in one
// transaction.
func (*Strategy) Save(ctx context.Context, root *org.Unit, path string) error {
	if root == nil {
		return orgerrors.New(orgerrors.ErrCodeInternal, "cannot save a nil chart")
	}

	db, err := open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := createSchema(ctx, db); err != nil {
		return err
	}

	rs := storage.Collect(root)
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "starting transaction on %s", path)
	}
	defer tx.Rollback()

	// Children reference parents, so deletion runs leaf-side first
	// and insertion follows collection pre-order.
	for _, table := range []string{"employee_roles", "roles", "employees", "units"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "clearing table %s", table)
		}
	}

	for _, u := range rs.Units {
		parent := sql.NullString{String: u.ParentID, Valid: u.ParentID != ""}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO units (id, name, description, type, parent_id) VALUES (?, ?, ?, ?, ?)",
			u.ID, u.Name, u.Description, u.Kind, parent); err != nil {
			return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "inserting unit %q", u.Name)
		}
	}
	for _, r := range rs.Roles {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO roles (id, name, description, unit_id) VALUES (?, ?, ?, ?)",
			roleID(r.UnitID, r.Name), r.Name, r.Description, r.UnitID); err != nil {
			return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "inserting role %q", r.Name)
		}
	}
	for _, e := range rs.Employees {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO employees (id, name) VALUES (?, ?)", e.ID, e.Name); err != nil {
			return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "inserting employee %q", e.Name)
		}
	}
	for _, a := range rs.Assignments {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO employee_roles (employee_id, role_id) VALUES (?, ?)",
			a.EmployeeID, roleID(a.UnitID, a.RoleName)); err != nil {
			return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "inserting assignment for %q", a.EmployeeID)
		}
	}

	if err := tx.Commit(); err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "committing to %s", path)
	}

	if err := checkCounts(ctx, db, rs); err != nil {
		return err
	}
	log.FromContext(ctx).Debug("saved relational chart",
		"path", path, "units", len(rs.Units), "employees", len(rs.Employees))
	return nil
}

// checkCounts verifies after commit that every record made it into
// its table. Duplicate assignments collapse on the primary key, so
// that table may hold fewer rows than records.
func checkCounts(ctx context.Context, db *sql.DB, rs *storage.RecordSet) error {
	counts := []struct {
		table string
		want  int
		exact bool
	}{
		{"units", len(rs.Units), true},
		{"roles", len(rs.Roles), true},
		{"employees", len(rs.Employees), true},
		{"employee_roles", len(rs.Assignments), false},
	}
	for _, c := range counts {
		var got int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(&got); err != nil {
			return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "counting rows in %s", c.table)
		}
		if (c.exact && got != c.want) || (!c.exact && got > c.want) {
			return orgerrors.New(orgerrors.ErrCodeInternal,
				"table %s holds %d rows after save, want %d", c.table, got, c.want)
		}
	}
	return nil
}

// Load rebuilds the chart from the database at path. A file that is
// not a well-formed SQLite database, or a database without the chart
// tables or rows, yields the default structure with a logged reason;
// only missing files and I/O failures surface as errors.
func (*Strategy) Load(ctx context.Context, path string) (*org.Unit, error) {
	logger := log.FromContext(ctx)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, orgerrors.Wrap(orgerrors.ErrCodeNotFound, err, "no chart at %s", path)
		}
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading %s", path)
	}
	if err := checkHeader(path); err != nil {
		if !orgerrors.Is(err, orgerrors.ErrCodeInvalidFormat) {
			return nil, err
		}
		logger.Warn("file is not a usable database, using default structure",
			"path", path, "reason", err)
		return DefaultStructure(), nil
	}

	db, err := open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var integrity string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		logger.Warn("integrity check did not run, using default structure",
			"path", path, "err", err)
		return DefaultStructure(), nil
	}
	if integrity != "ok" {
		logger.Warn("database fails its integrity check, using default structure",
			"path", path, "result", integrity)
		return DefaultStructure(), nil
	}

	ok, err := tablesExist(ctx, db)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Warn("database has no chart tables, using default structure", "path", path)
		return DefaultStructure(), nil
	}

	rs, err := readRecords(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(rs.Units) == 0 {
		logger.Warn("database holds an empty chart, using default structure", "path", path)
		return DefaultStructure(), nil
	}
	if len(rs.Assignments) > 0 && len(rs.Employees) == 0 {
		logger.Warn("assignment rows without employee rows",
			"path", path, "assignments", len(rs.Assignments))
	}

	root, issues := storage.Link(rs)
	warnings, err := storage.Accept(root, issues)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn("recoverable chart defect", "path", path, "err", w)
	}
	return root, nil
}

// DefaultStructure is the chart served when a database exists but
// holds nothing yet: a board with its president role.
func DefaultStructure() *org.Unit {
	root := org.NewUnit(org.KindBoard, "Root Board", "")
	root.AddRole(org.NewRole("Presidente", "Board President"))
	return root
}

func open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "opening database %s", path)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "configuring database %s", path)
	}
	return db, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "creating schema")
		}
	}
	return nil
}

// checkHeader flags files that are not SQLite databases before the
// driver touches them; Load turns the finding into the default
// structure fallback. A zero length file passes because SQLite itself
// treats it as a valid empty database.
func checkHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading %s", path)
	}
	defer f.Close()

	buf := make([]byte, len(sqliteHeader))
	n, _ := f.Read(buf)
	if n == 0 {
		return nil
	}
	if n < len(sqliteHeader) || string(buf) != string(sqliteHeader) {
		return orgerrors.New(orgerrors.ErrCodeInvalidFormat,
			"%s is not a SQLite database", path)
	}
	return nil
}

func tablesExist(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'
		 AND name IN ('units', 'roles', 'employees', 'employee_roles')`).Scan(&n)
	if err != nil {
		return false, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "inspecting schema")
	}
	return n == 4, nil
}

// readRecords pulls the four tables into a record set. Row order
// follows insertion order, which Save arranged as tree pre-order, so
// root inference sees the same sequence every flat codec does.
func readRecords(ctx context.Context, db *sql.DB) (*storage.RecordSet, error) {
	rs := &storage.RecordSet{}

	rows, err := db.QueryContext(ctx,
		"SELECT type, id, name, description, parent_id FROM units ORDER BY rowid")
	if err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading units")
	}
	for rows.Next() {
		var (
			u           storage.UnitRecord
			desc, paren sql.NullString
		)
		if err := rows.Scan(&u.Kind, &u.ID, &u.Name, &desc, &paren); err != nil {
			rows.Close()
			return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading units")
		}
		u.Description, u.ParentID = desc.String, paren.String
		rs.Units = append(rs.Units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading units")
	}
	rows.Close()

	rows, err = db.QueryContext(ctx,
		"SELECT unit_id, name, description FROM roles ORDER BY rowid")
	if err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading roles")
	}
	for rows.Next() {
		var (
			r    storage.RoleRecord
			desc sql.NullString
		)
		if err := rows.Scan(&r.UnitID, &r.Name, &desc); err != nil {
			rows.Close()
			return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading roles")
		}
		r.Description = desc.String
		rs.Roles = append(rs.Roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading roles")
	}
	rows.Close()

	rows, err = db.QueryContext(ctx, "SELECT id, name FROM employees ORDER BY rowid")
	if err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading employees")
	}
	for rows.Next() {
		var e storage.EmployeeRecord
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			rows.Close()
			return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading employees")
		}
		rs.Employees = append(rs.Employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading employees")
	}
	rows.Close()

	rows, err = db.QueryContext(ctx,
		`SELECT er.employee_id, r.name, r.unit_id
		 FROM employee_roles er JOIN roles r ON r.id = er.role_id
		 ORDER BY er.rowid`)
	if err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading assignments")
	}
	for rows.Next() {
		var a storage.AssignmentRecord
		if err := rows.Scan(&a.EmployeeID, &a.RoleName, &a.UnitID); err != nil {
			rows.Close()
			return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading assignments")
		}
		rs.Assignments = append(rs.Assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading assignments")
	}
	rows.Close()

	return rs, nil
}
