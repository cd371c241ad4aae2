package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

const defaultParallelism = 4

// Aggregator loads repositories through a loader port and merges them into
// unit indices.
type Aggregator struct {
	Loader      ports.RepositoryLoaderPort
	Parallelism int
}

// LoadedRepositories holds the units of every repository of one resolve
// call, keyed by reference.
type LoadedRepositories struct {
	units map[types.RepositoryRef][]types.Unit
}

// Aggregate loads refs and returns their first-seen union.
func (a Aggregator) Aggregate(ctx context.Context, refs []types.RepositoryRef) (*UnitIndex, error) {
	loaded, err := a.Load(ctx, refs)
	if err != nil {
		return nil, err
	}
	return loaded.Index(refs), nil
}

// Load fetches each distinct ref once, concurrently. Any failure is fatal.
// When several repositories fail the first one in declaration order is
// reported.
func (a Aggregator) Load(ctx context.Context, refs []types.RepositoryRef) (LoadedRepositories, error) {
	unique := uniqueRefs(refs)
	results := make([][]types.Unit, len(unique))
	failures := make([]error, len(unique))

	group, groupCtx := errgroup.WithContext(ctx)
	limit := a.Parallelism
	if limit <= 0 {
		limit = defaultParallelism
	}
	group.SetLimit(limit)
	for i, ref := range unique {
		group.Go(func() error {
			units, err := a.loadOne(groupCtx, ref)
			if err != nil {
				failures[i] = err
				return err
			}
			results[i] = units
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		if ctx.Err() != nil {
			return LoadedRepositories{}, cancelled(ctx.Err())
		}
		return LoadedRepositories{}, firstRealFailure(failures, err)
	}

	loaded := LoadedRepositories{units: make(map[types.RepositoryRef][]types.Unit, len(unique))}
	for i, ref := range unique {
		loaded.units[ref] = results[i]
	}
	return loaded, nil
}

func (a Aggregator) loadOne(ctx context.Context, ref types.RepositoryRef) ([]types.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}
	repo, err := a.Loader.Open(ctx, ref)
	if err != nil {
		return nil, classifyLoadError(ctx, ref, err)
	}
	units, err := repo.ListUnits(ctx)
	if err != nil {
		return nil, classifyLoadError(ctx, ref, err)
	}
	provenance := ref.String()
	out := make([]types.Unit, 0, len(units))
	for _, unit := range units {
		if unit.Provenance == "" {
			unit.Provenance = provenance
		}
		out = append(out, unit)
	}
	logger := log.Ctx(ctx)
	if len(out) == 0 {
		logger.Warn().Str("repository", provenance).Msg("repository has no units")
	} else {
		logger.Debug().Str("repository", provenance).Int("units", len(out)).Msg("repository loaded")
	}
	return out, nil
}

func classifyLoadError(ctx context.Context, ref types.RepositoryRef, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return cancelled(err)
	}
	return repositoryUnavailable(ref, err)
}

// firstRealFailure prefers a repository failure over the cancellations it
// caused in sibling loads.
func firstRealFailure(failures []error, fallback error) error {
	for _, err := range failures {
		if err != nil && !errors.Is(err, ErrCancelled) {
			return err
		}
	}
	return fallback
}

// Index builds the union of refs in declaration order.
func (l LoadedRepositories) Index(refs []types.RepositoryRef) *UnitIndex {
	index := NewUnitIndex()
	for _, ref := range refs {
		for _, unit := range l.units[ref] {
			index.add(unit)
		}
	}
	return index
}

func uniqueRefs(refs []types.RepositoryRef) []types.RepositoryRef {
	seen := map[types.RepositoryRef]bool{}
	var out []types.RepositoryRef
	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}
