package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/visual"
)

// strategyFor resolves the storage strategy for a path: an explicit
// flag wins, then the file extension. The configured default format
// applies only to paths without any extension; an extension nothing
// is registered for is an error, not a fallback.
func strategyFor(path, flagFormat string) (storage.Strategy, error) {
	name := flagFormat
	if name == "" {
		if strings.Contains(filepath.Base(path), ".") {
			f, err := storage.FormatForPath(path)
			if err != nil {
				return nil, err
			}
			return storage.New(f)
		}
		name = cfg.Format
	}
	f, err := storage.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return storage.New(f)
}

func newConvertCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Read a chart in one format and write it in another",
		Long: `Convert reads a chart file and writes it out in a different storage
format. Formats are inferred from the file extensions (.json, .csv,
.db, .ser) and can be overridden with --from and --to.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := charmlog.FromContext(ctx)

			in, err := strategyFor(args[0], from)
			if err != nil {
				return err
			}
			out, err := strategyFor(args[1], to)
			if err != nil {
				return err
			}

			p := newProgress(logger)
			root, err := in.Load(ctx, args[0])
			if err != nil {
				return err
			}
			// Hard violations never survive Load, only warnings can.
			for _, v := range org.Validate(root).Warnings() {
				logger.Warn("structural warning", "path", v.Path, "msg", v.Message)
			}
			if err := out.Save(ctx, root, args[1]); err != nil {
				return err
			}
			p.done(fmt.Sprintf("Converted %s (%s) to %s (%s)", args[0], in.Format(), args[1], out.Format()))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format (document, tabular, relational, binary)")
	cmd.Flags().StringVar(&to, "to", "", "output format (document, tabular, relational, binary)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a chart against the structural rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := strategyFor(args[0], format)
			if err != nil {
				return err
			}
			root, err := s.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			vs := org.Validate(root)
			for _, v := range vs {
				fmt.Fprintln(cmd.OutOrStdout(), renderViolation(v))
			}
			if len(vs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "chart is valid")
			}
			return vs.Err()
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "storage format of the file")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the chart tree with roles and assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := strategyFor(args[0], format)
			if err != nil {
				return err
			}
			root, err := s.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rs := storage.Collect(root)
			fmt.Fprint(cmd.OutOrStdout(), renderTree(root))
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d units, %d roles, %d employees, %d assignments\n",
				len(rs.Units), len(rs.Roles), len(rs.Employees), len(rs.Assignments))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "storage format of the file")
	return cmd
}

func newVisualizeCmd() *cobra.Command {
	var (
		format    string
		outFormat string
		output    string
		detailed  bool
	)

	cmd := &cobra.Command{
		Use:   "visualize <file>",
		Short: "Generate a DOT, SVG, or PNG diagram of a chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := strategyFor(args[0], format)
			if err != nil {
				return err
			}
			root, err := s.Load(ctx, args[0])
			if err != nil {
				return err
			}

			if outFormat == "" {
				outFormat = cfg.Visualize.Format
			}
			dot := visual.ToDOT(root, visual.Options{Detailed: detailed || cfg.Visualize.Detailed})

			var data []byte
			switch strings.ToLower(outFormat) {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = visual.RenderSVG(ctx, dot)
			case "png":
				data, err = visual.RenderPNG(ctx, dot)
			default:
				return orgerrors.New(orgerrors.ErrCodeUnsupportedFormat,
					"unknown diagram format %q (want dot, svg or png)", outFormat)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "writing %s", output)
			}
			charmlog.FromContext(ctx).Info("diagram written", "path", output, "format", outFormat)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "storage format of the input file")
	cmd.Flags().StringVarP(&outFormat, "to", "t", "", "diagram format (dot, svg, png)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "list roles and holders in each box")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "demo <output>",
		Short: "Write a sample chart to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := strategyFor(args[0], format)
			if err != nil {
				return err
			}
			if err := s.Save(ctx, demoChart(), args[0]); err != nil {
				return err
			}
			charmlog.FromContext(ctx).Info("sample chart written", "path", args[0], "format", s.Format())
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "storage format of the output file")
	return cmd
}

// demoChart builds the sample organization written by the demo
// command.
func demoChart() *org.Unit {
	root := org.NewUnit(org.KindBoard, "Acme Corp", "Società di esempio")
	pres := org.NewRole("Presidente", "Presiede il consiglio")
	vice := org.NewRole("Vicepresidente", "Sostituisce il presidente")
	root.AddRole(pres)
	root.AddRole(vice)

	eng := org.NewUnit(org.KindDepartment, "Engineering", "Sviluppo prodotto")
	dir := org.NewRole("Direttore", "Dirige il dipartimento")
	eng.AddRole(dir)

	hr := org.NewUnit(org.KindDepartment, "Risorse Umane", "Gestione del personale")
	hrLead := org.NewRole("Responsabile Risorse Umane", "Gestisce il personale")
	hr.AddRole(hrLead)

	core := org.NewUnit(org.KindGroup, "Core", "Piattaforma di base")
	lead := org.NewRole("Team Leader", "Guida operativa del gruppo")
	member := org.NewRole("Membro", "Membro del gruppo")
	core.AddRole(lead)
	core.AddRole(member)

	root.AddChild(eng)
	root.AddChild(hr)
	eng.AddChild(core)

	people := []struct {
		name string
		role *org.Role
	}{
		{"Mario Rossi", pres},
		{"Laura Bianchi", dir},
		{"Giulia Verdi", hrLead},
		{"Luca Ferrari", lead},
		{"Sara Russo", member},
		{"Paolo Esposito", member},
	}
	for _, p := range people {
		if err := org.NewEmployee(p.name).Assign(p.role); err != nil {
			// Every role above is attached and each person appears once.
			panic(err)
		}
	}
	return root
}
