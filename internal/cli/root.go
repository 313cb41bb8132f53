// Package cli implements the modbump command-line interface.
//
// The CLI reads a Thunderstore mod manifest, resolves the latest
// published version of every dependency through the registry API, and
// writes the updated manifest back out. Commands are built with cobra;
// logging uses the charmbracelet/log library with the logger carried
// through context.Context.
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/modbump/modbump/pkg/buildinfo"
)

// Execute runs the modbump CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "modbump updates Thunderstore manifest dependencies",
		Long:         `modbump reads a Thunderstore mod manifest.json, looks up the latest published version of every dependency on the registry, and writes an updated manifest with the dependency list bumped and sorted.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newUpdateCmd())
	root.AddCommand(newCompletionCmd(appName))

	return root.ExecuteContext(ctx)
}
