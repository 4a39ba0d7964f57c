// Package visual renders organizational charts as Graphviz diagrams.
// The chart becomes a top-down tree of boxes, one per unit, with the
// roles and their holders listed inside the box when detail is on.
package visual

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage"
)

// Options configures diagram generation.
type Options struct {
	// Detailed lists roles and their holders inside each unit box.
	// When false, boxes carry only the unit name.
	Detailed bool
}

// ToDOT converts a chart to Graphviz DOT text. The result can be fed
// to [RenderSVG] and [RenderPNG], or to an external Graphviz install.
func ToDOT(root *org.Unit, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph orgchart {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if root != nil {
		root.Walk(func(u *org.Unit) bool {
			fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s];\n",
				storage.UnitID(u), fmtLabel(u, opts.Detailed), fillColor(u.Kind()))
			return true
		})
		buf.WriteString("\n")
		root.Walk(func(u *org.Unit) bool {
			for _, c := range u.Children() {
				fmt.Fprintf(&buf, "  %q -> %q;\n", storage.UnitID(u), storage.UnitID(c))
			}
			return true
		})
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(u *org.Unit, detailed bool) string {
	if !detailed {
		return u.Name()
	}
	parts := []string{u.Name(), "(" + u.Kind().String() + ")"}
	for _, r := range u.Roles() {
		line := r.Name()
		if holders := r.Holders(); len(holders) > 0 {
			names := make([]string, len(holders))
			for i, e := range holders {
				names[i] = e.Name()
			}
			line += ": " + strings.Join(names, ", ")
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

func fillColor(k org.Kind) string {
	switch k {
	case org.KindBoard:
		return "lightgoldenrod"
	case org.KindGroup:
		return "lightgrey"
	default:
		return "white"
	}
}

// RenderSVG renders DOT text to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT text to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeInternal, err, "initializing graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeInternal, err, "parsing DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeInternal, err, "rendering diagram")
	}
	return buf.Bytes(), nil
}
