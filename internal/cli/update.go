package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/modbump/modbump/pkg/errors"
	"github.com/modbump/modbump/pkg/manifest"
	"github.com/modbump/modbump/pkg/thunderstore"
	"github.com/modbump/modbump/pkg/updater"
)

// updateOpts holds the command-line flags for the update command.
type updateOpts struct {
	input      string        // manifest to update
	output     string        // output path (input path if empty)
	maxWorkers int           // concurrent lookup cap
	timeout    time.Duration // per-request timeout
	registry   string        // registry base URL override
	check      bool          // report only, write nothing
}

// newUpdateCmd creates the update command.
//
// Defaults not overridden by flags fall back to the optional config
// file (~/.config/modbump/config.toml) and then to built-in values.
func newUpdateCmd() *cobra.Command {
	opts := updateOpts{
		maxWorkers: updater.DefaultMaxWorkers,
		timeout:    thunderstore.DefaultTimeout,
	}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update manifest dependencies to their latest versions",
		Long: `Update a Thunderstore manifest's dependencies to the latest published versions.

Every dependency is looked up concurrently on the registry. The run is
all-or-nothing: if any lookup fails, no output is written. The updated
dependency list is sorted by identifier, so output is stable across runs.

Examples:
  modbump update -i manifest.json                    # update in place
  modbump update -i manifest.json -o out.json        # write elsewhere
  modbump update -i manifest.json --check            # report, don't write
  modbump update -i manifest.json --max-workers 2    # gentler on the registry`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDefaultConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("registry") && cfg.Registry != "" {
				opts.registry = cfg.Registry
			}
			if !cmd.Flags().Changed("max-workers") && cfg.MaxWorkers > 0 {
				opts.maxWorkers = cfg.MaxWorkers
			}
			if !cmd.Flags().Changed("timeout") && cfg.TimeoutSeconds > 0 {
				opts.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
			}
			return runUpdate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "path to the manifest to update (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (defaults to the input path)")
	cmd.Flags().IntVar(&opts.maxWorkers, "max-workers", opts.maxWorkers, "maximum concurrent registry lookups")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request registry timeout")
	cmd.Flags().StringVar(&opts.registry, "registry", "", "registry base URL (defaults to thunderstore.io)")
	cmd.Flags().BoolVar(&opts.check, "check", false, "only report outdated dependencies, exit non-zero if any")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// runUpdate performs one manifest update run.
func runUpdate(ctx context.Context, opts updateOpts) error {
	logger := loggerFromContext(ctx)

	if opts.maxWorkers <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--max-workers must be positive, got %d", opts.maxWorkers)
	}
	if opts.output == "" {
		opts.output = opts.input
	}

	logger.Debugf("input=%s output=%s workers=%d timeout=%s registry=%s check=%t",
		opts.input, opts.output, opts.maxWorkers, opts.timeout, opts.registry, opts.check)

	logger.Infof("Loading manifest %s", opts.input)
	m, err := manifest.Load(opts.input)
	if err != nil {
		return err
	}
	origDeps, err := m.Dependencies()
	if err != nil {
		return err
	}

	clientOpts := []thunderstore.Option{thunderstore.WithTimeout(opts.timeout)}
	if opts.registry != "" {
		clientOpts = append(clientOpts, thunderstore.WithBaseURL(opts.registry))
	}
	client := thunderstore.NewClient(clientOpts...)

	prog := newProgress(logger)
	sp := newSpinner(ctx, fmt.Sprintf("Resolving %d dependencies", len(origDeps)))
	sp.start()
	updated, err := updater.UpdateManifest(ctx, client, m, updater.Options{MaxWorkers: opts.maxWorkers})
	sp.stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d dependencies", len(origDeps)))

	newDeps, err := updated.Dependencies()
	if err != nil {
		return err
	}
	outdated := reportChanges(origDeps, newDeps)

	if opts.check {
		if outdated > 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%d of %d dependencies out of date", outdated, len(newDeps))
		}
		printSuccess("All %d dependencies up to date", len(newDeps))
		return nil
	}

	logger.Infof("Writing manifest %s", opts.output)
	if err := updated.Save(opts.output); err != nil {
		return err
	}
	printSuccess("Updated %d of %d dependencies %s %s",
		outdated, len(newDeps), iconArrow, styleHighlight.Render(opts.output))
	return nil
}

// reportChanges prints one line per dependency and returns how many
// were bumped. Old and new identifiers are matched on namespace-name;
// the new list is already sorted by the updater.
func reportChanges(origDeps, newDeps []string) int {
	oldByKey := make(map[string]string, len(origDeps))
	for _, dep := range origDeps {
		if p, err := thunderstore.ParsePackage(dep); err == nil {
			oldByKey[p.Namespace+"-"+p.Name] = dep
		}
	}

	outdated := 0
	for _, dep := range newDeps {
		p, err := thunderstore.ParsePackage(dep)
		if err != nil {
			continue
		}
		old, ok := oldByKey[p.Namespace+"-"+p.Name]
		if !ok {
			old = dep
		}
		if old != dep {
			outdated++
		}
		printBump(old, dep)
	}
	return outdated
}
