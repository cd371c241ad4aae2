package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

type TargetResolverConfig struct {
	Loader               ports.RepositoryLoaderPort
	Profiles             ports.ProfileTablePort
	ExecutionEnvironment string
	JREPrefix            string
	Parallelism          int
}

// TargetResolver resolves target definitions against one execution
// environment. Hints are computed once at construction and shared
// read-only by every resolve call.
type TargetResolver struct {
	aggregator  Aggregator
	hints       *ExecutionEnvironmentHints
	parallelism int
}

// NewTargetResolver fails with UnknownEnvironment before any resolution
// when the execution environment cannot be resolved.
func NewTargetResolver(cfg TargetResolverConfig) (*TargetResolver, error) {
	hints, err := EEHintsResolver{Profiles: cfg.Profiles, Prefix: cfg.JREPrefix}.Hints(cfg.ExecutionEnvironment)
	if err != nil {
		return nil, err
	}
	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &TargetResolver{
		aggregator:  Aggregator{Loader: cfg.Loader, Parallelism: parallelism},
		hints:       hints,
		parallelism: parallelism,
	}, nil
}

func (r *TargetResolver) Hints() *ExecutionEnvironmentHints {
	return r.hints
}

type locationOutcome struct {
	result   StrategyResult
	err      error
	duration time.Duration
}

// Resolve runs every location and merges the results. It is all or
// nothing: on failure the returned content carries diagnostics but no
// units, and the error names the first failing location in declaration
// order.
func (r *TargetResolver) Resolve(ctx context.Context, def types.TargetDefinition) (types.ResolvedContent, error) {
	content := types.ResolvedContent{
		Target:               def.Name,
		ExecutionEnvironment: r.hints.Name,
	}
	if err := ValidateDefinition(def); err != nil {
		return content, err
	}
	logger := log.Ctx(ctx)

	var refs []types.RepositoryRef
	for _, loc := range def.Locations {
		refs = append(refs, loc.Repositories...)
	}
	loaded, err := r.aggregator.Load(ctx, refs)
	if err != nil {
		content.Diagnostics = skippedDiagnostics(def)
		return content, r.attributeLoadFailure(def, err)
	}

	filter := NewEnvironmentFilter(def.Environments)
	outcomes := make([]locationOutcome, len(def.Locations))
	var group errgroup.Group
	group.SetLimit(r.parallelism)
	for i, loc := range def.Locations {
		group.Go(func() error {
			outcomes[i] = r.resolveLocation(ctx, loc, loaded, filter)
			return nil
		})
	}
	_ = group.Wait()

	var firstErr error
	var merged []types.Unit
	for i, loc := range def.Locations {
		outcome := outcomes[i]
		diagnostic := types.LocationDiagnostic{
			Index:      i,
			Name:       loc.Name,
			Mode:       loc.IncludeMode,
			Status:     types.LocationStatusResolved,
			UnitCount:  len(outcome.result.Units),
			DurationMs: outcome.duration.Milliseconds(),
			Warnings:   outcome.result.Warnings,
		}
		if outcome.err != nil {
			diagnostic.Status = types.LocationStatusFailed
			diagnostic.UnitCount = 0
			diagnostic.Error = outcome.err.Error()
			if firstErr == nil {
				firstErr = locationFailed(i, loc, outcome.err)
			}
		}
		content.Diagnostics = append(content.Diagnostics, diagnostic)
		merged = append(merged, outcome.result.Units...)
		logger.Debug().
			Int("location", i).
			Str("mode", string(loc.IncludeMode)).
			Int("units", diagnostic.UnitCount).
			Str("status", string(diagnostic.Status)).
			Msg("location resolved")
	}
	if firstErr != nil {
		return content, firstErr
	}

	merged = append(merged, r.hints.SyntheticUnits...)
	var kept []types.Unit
	for _, unit := range merged {
		if r.hints.Excludes(unit) {
			continue
		}
		kept = append(kept, unit)
	}
	content.Units = DedupeUnits(kept)
	logger.Info().
		Str("ee", r.hints.Name).
		Int("locations", len(def.Locations)).
		Int("units", len(content.Units)).
		Msg("target resolved")
	return content, nil
}

func (r *TargetResolver) resolveLocation(ctx context.Context, loc types.Location, loaded LoadedRepositories, filter *EnvironmentFilter) locationOutcome {
	start := time.Now()
	strategy, err := StrategyFor(loc.IncludeMode)
	if err != nil {
		return locationOutcome{err: err}
	}
	if loc.IncludeAllEnvironments {
		filter = nil
	}
	input := StrategyInput{
		Seeds:         SeedRequirements(ctx, loc),
		Index:         loaded.Index(loc.Repositories),
		Hints:         r.hints,
		Filter:        filter,
		IncludeSource: loc.IncludeSource,
	}
	result, err := strategy.Resolve(ctx, input)
	if err == nil {
		kept := result.Units[:0:0]
		for _, unit := range result.Units {
			if !r.hints.Excludes(unit) {
				kept = append(kept, unit)
			}
		}
		result.Units = kept
	}
	return locationOutcome{result: result, err: err, duration: time.Since(start)}
}

// attributeLoadFailure wraps a repository failure in the first location
// that references the repository.
func (r *TargetResolver) attributeLoadFailure(def types.TargetDefinition, err error) error {
	var resolutionErr *ResolutionError
	if !errors.As(err, &resolutionErr) || resolutionErr.Kind != KindRepositoryUnavailable {
		return err
	}
	for i, loc := range def.Locations {
		for _, ref := range loc.Repositories {
			if ref.String() == resolutionErr.Repository {
				return locationFailed(i, loc, err)
			}
		}
	}
	return err
}

func skippedDiagnostics(def types.TargetDefinition) []types.LocationDiagnostic {
	out := make([]types.LocationDiagnostic, 0, len(def.Locations))
	for i, loc := range def.Locations {
		out = append(out, types.LocationDiagnostic{
			Index:  i,
			Name:   loc.Name,
			Mode:   loc.IncludeMode,
			Status: types.LocationStatusSkipped,
		})
	}
	return out
}
