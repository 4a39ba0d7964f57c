// Package cli implements the orgchart command-line interface.
//
// This package provides commands for converting charts between the
// storage formats, validating their structure, inspecting and
// visualizing them, and generating a sample chart to start from. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - convert: Read a chart in one format and write it in another
//   - validate: Check a chart against the structural rules
//   - inspect: Print the tree with roles and assignments
//   - visualize: Generate DOT, SVG, or PNG diagrams
//   - demo: Write a sample chart in any format
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The
// logger travels through context.Context so the storage codecs report
// skipped rows and fallbacks on the same stream.
package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/g-zangara/OrganigrammaAziendale/pkg/buildinfo"

	// Codec registration.
	_ "github.com/g-zangara/OrganigrammaAziendale/pkg/storage/binary"
	_ "github.com/g-zangara/OrganigrammaAziendale/pkg/storage/document"
	_ "github.com/g-zangara/OrganigrammaAziendale/pkg/storage/relational"
	_ "github.com/g-zangara/OrganigrammaAziendale/pkg/storage/tabular"
)

// cfg holds the active configuration, loaded before any command runs.
var cfg = defaultConfig()

// NewRootCommand builds the orgchart command tree. Split from Execute
// so tests can run commands with their own arguments and streams.
func NewRootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "orgchart",
		Short:        "Orgchart stores and converts organizational charts",
		Long:         `Orgchart manages organizational chart files: it converts between the document, tabular, relational and binary storage formats, validates chart structure, and renders diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(configPath)
			if err != nil {
				return err
			}
			level := charmlog.InfoLevel
			if verbose || cfg.Verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(charmlog.WithContext(cmd.Context(), logger))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("orgchart\n%s\n", buildinfo.String()))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(newConvertCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newVisualizeCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the orgchart CLI and returns an error if any command
// fails. The context carries cancellation from signal handling in
// main.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
