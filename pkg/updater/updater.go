// Package updater resolves a manifest's dependency list to the latest
// registry versions with bounded parallelism.
//
// Lookups are independent, so they fan out over a fixed-size worker
// pool and fan back in through a results channel. The batch is
// all-or-nothing: the first failed lookup aborts the run and no
// partial result is returned. Successful runs always produce the
// dependency list sorted lexicographically by identifier, so output is
// deterministic regardless of which lookups finished first.
package updater

import (
	"context"
	"slices"
	"strings"

	"github.com/modbump/modbump/pkg/errors"
	"github.com/modbump/modbump/pkg/manifest"
	"github.com/modbump/modbump/pkg/thunderstore"
)

// DefaultMaxWorkers caps simultaneous registry requests. The value is
// deliberately conservative to stay clear of registry-side rate limits.
const DefaultMaxWorkers = 5

// Fetcher resolves the latest published version of a package.
// *thunderstore.Client satisfies it; tests substitute fakes.
type Fetcher interface {
	LatestVersion(ctx context.Context, pkg thunderstore.Package) (thunderstore.Package, error)
}

// Options controls an update run.
type Options struct {
	// MaxWorkers bounds concurrent lookups. Zero or negative means
	// DefaultMaxWorkers. The worker count never changes results, only
	// timing.
	MaxWorkers int
}

func (o Options) withDefaults() Options {
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	return o
}

type result struct {
	pkg    thunderstore.Package
	latest thunderstore.Package
	err    error
}

// Update resolves the latest version of every package in pkgs.
//
// On success it returns one updated package per input, sorted by
// serialized identifier. On the first lookup failure it returns an
// ErrCodeLookupFailed error naming the package that failed; lookups
// already in flight run to completion in the background and their
// results are discarded rather than cancelled.
func Update(ctx context.Context, fetcher Fetcher, pkgs []thunderstore.Package, opts Options) ([]thunderstore.Package, error) {
	opts = opts.withDefaults()
	if len(pkgs) == 0 {
		return []thunderstore.Package{}, nil
	}

	// Both channels are buffered to the batch size so abandoned workers
	// can always drain their remaining jobs and exit.
	jobs := make(chan thunderstore.Package, len(pkgs))
	results := make(chan result, len(pkgs))
	for _, p := range pkgs {
		jobs <- p
	}
	close(jobs)

	for i := 0; i < min(opts.MaxWorkers, len(pkgs)); i++ {
		go func() {
			for p := range jobs {
				latest, err := fetcher.LatestVersion(ctx, p)
				results <- result{pkg: p, latest: latest, err: err}
			}
		}()
	}

	updated := make([]thunderstore.Package, 0, len(pkgs))
	for range pkgs {
		select {
		case r := <-results:
			if r.err != nil {
				return nil, errors.Wrap(errors.ErrCodeLookupFailed, r.err, "update %s", r.pkg)
			}
			updated = append(updated, r.latest)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	slices.SortFunc(updated, func(a, b thunderstore.Package) int {
		return strings.Compare(a.String(), b.String())
	})
	return updated, nil
}

// UpdateManifest returns a copy of m with every dependency resolved to
// its latest version.
//
// All dependency strings are parsed before any network call, so a
// malformed identifier aborts the run immediately. The input manifest
// is never modified; on any failure no manifest is returned at all.
func UpdateManifest(ctx context.Context, fetcher Fetcher, m *manifest.Manifest, opts Options) (*manifest.Manifest, error) {
	depStrings, err := m.Dependencies()
	if err != nil {
		return nil, err
	}

	pkgs := make([]thunderstore.Package, len(depStrings))
	for i, s := range depStrings {
		pkg, err := thunderstore.ParsePackage(s)
		if err != nil {
			return nil, err
		}
		pkgs[i] = pkg
	}

	updated, err := Update(ctx, fetcher, pkgs, opts)
	if err != nil {
		return nil, err
	}

	deps := make([]string, len(updated))
	for i, p := range updated {
		deps[i] = p.String()
	}
	return m.WithDependencies(deps)
}
