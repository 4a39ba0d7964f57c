package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - unit names
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleUnit    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleKind    = lipgloss.NewStyle().Foreground(colorDim)
	styleRole    = lipgloss.NewStyle().Foreground(colorGray)
	styleHolder  = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
)

// renderTree returns a styled text rendering of the chart, one unit
// per line with its roles and holders indented below it.
func renderTree(root *org.Unit) string {
	var sb strings.Builder
	renderUnit(&sb, root, 0)
	return sb.String()
}

func renderUnit(sb *strings.Builder, u *org.Unit, depth int) {
	in := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s%s %s\n", in, styleUnit.Render(u.Name()), styleKind.Render("["+u.Kind().String()+"]"))
	for _, r := range u.Roles() {
		line := in + "  - " + styleRole.Render(r.Name())
		if holders := r.Holders(); len(holders) > 0 {
			names := make([]string, len(holders))
			for i, e := range holders {
				names[i] = e.Name()
			}
			line += ": " + styleHolder.Render(strings.Join(names, ", "))
		}
		sb.WriteString(line + "\n")
	}
	for _, c := range u.Children() {
		renderUnit(sb, c, depth+1)
	}
}

// renderViolation returns one styled line per validation finding.
func renderViolation(v org.Violation) string {
	style := styleError
	if v.Severity == org.SeverityWarning {
		style = styleWarning
	}
	return fmt.Sprintf("%s %s: %s", style.Render(v.Severity.String()), v.Path, v.Message)
}
