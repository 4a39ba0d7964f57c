// Package storage defines the persistence contract for organizational
// charts and the pieces shared by every codec: the storage strategy
// interface, the format registry, stable unit identifiers and the
// flattening of a tree into portable record sets.
//
// # Strategies
//
// Each on-disk representation lives in its own sub-package and
// implements [Strategy]. Callers pick one through [New] by [Format]
// and never deal with the representation directly:
//
//	s, err := storage.New(storage.FormatDocument)
//	if err != nil { ... }
//	root, err := s.Load(ctx, "chart.json")
//
// # Records
//
// The tabular, binary and relational codecs do not walk the tree
// directly. They go through [Collect], which flattens a chart into
// unit, role, employee and assignment records keyed by the stable IDs
// of the identity scheme, and through [Link], which rebuilds the tree
// from such records. Keeping the flattening in one place guarantees
// all flat formats agree on identity and ordering.
package storage

import (
	"context"
	"strings"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
)

// Strategy persists and restores a whole chart. Implementations are
// stateless with respect to the chart: every Save writes the complete
// tree and every Load returns a freshly built one.
type Strategy interface {
	// Save writes the tree rooted at root to path, replacing any
	// previous content.
	Save(ctx context.Context, root *org.Unit, path string) error
	// Load reads a chart from path. A nil root with a nil error is
	// never returned; missing or empty sources yield a coded error.
	Load(ctx context.Context, path string) (*org.Unit, error)
	// Format identifies the strategy.
	Format() Format
}

// Format enumerates the supported on-disk representations.
type Format string

const (
	// FormatDocument is the nested text document representation.
	FormatDocument Format = "document"
	// FormatTabular is the multi-section delimited text representation.
	FormatTabular Format = "tabular"
	// FormatRelational is the embedded SQLite database representation.
	FormatRelational Format = "relational"
	// FormatBinary is the self-describing binary snapshot written as a
	// fallback by the document codec and readable on its own.
	FormatBinary Format = "binary"
)

// String returns the format's registry name.
func (f Format) String() string { return string(f) }

// Ext returns the conventional file extension, dot included.
func (f Format) Ext() string {
	switch f {
	case FormatDocument:
		return ".json"
	case FormatTabular:
		return ".csv"
	case FormatRelational:
		return ".db"
	case FormatBinary:
		return ".ser"
	default:
		return ""
	}
}

// ParseFormat resolves a user-supplied format name or file extension
// to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "document", "json":
		return FormatDocument, nil
	case "tabular", "csv":
		return FormatTabular, nil
	case "relational", "db", "sqlite", "sqlite3":
		return FormatRelational, nil
	case "binary", "ser":
		return FormatBinary, nil
	}
	return "", orgerrors.New(orgerrors.ErrCodeUnsupportedFormat, "unknown storage format %q", s)
}

// FormatForPath guesses the format from a file path's extension.
func FormatForPath(path string) (Format, error) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", orgerrors.New(orgerrors.ErrCodeUnsupportedFormat,
			"cannot infer storage format: %q has no extension", path)
	}
	f, err := ParseFormat(path[i:])
	if err != nil {
		return "", orgerrors.New(orgerrors.ErrCodeUnsupportedFormat,
			"cannot infer storage format from extension %q", path[i:])
	}
	return f, nil
}

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{FormatDocument, FormatTabular, FormatRelational, FormatBinary}
}

// factories is populated by the codec sub-packages through Register.
var factories = map[Format]func() Strategy{}

// Register installs a strategy constructor for a format. Codec
// packages call it from their init functions; a later registration
// for the same format replaces the earlier one.
func Register(f Format, mk func() Strategy) {
	factories[f] = mk
}

// New returns a fresh strategy for the format.
func New(f Format) (Strategy, error) {
	mk, ok := factories[f]
	if !ok {
		return nil, orgerrors.New(orgerrors.ErrCodeUnsupportedFormat,
			"no storage strategy registered for format %q", f)
	}
	return mk(), nil
}
