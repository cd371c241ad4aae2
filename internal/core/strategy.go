package core

import (
	"context"
	"fmt"

	"target-platform/internal/types"
)

// StrategyInput is shared by both include modes.
type StrategyInput struct {
	Seeds         []types.Requirement
	Index         *UnitIndex
	Hints         *ExecutionEnvironmentHints
	Filter        *EnvironmentFilter
	IncludeSource bool
}

type StrategyResult struct {
	Units    []types.Unit
	Warnings []string
}

// Strategy turns a location's seeds into a set of units.
type Strategy interface {
	Resolve(ctx context.Context, input StrategyInput) (StrategyResult, error)
}

// StrategyFor selects the strategy for an include mode.
func StrategyFor(mode types.IncludeMode) (Strategy, error) {
	switch mode {
	case types.IncludeModePlanner:
		return Planner{}, nil
	case types.IncludeModeSlicer:
		return Slicer{}, nil
	default:
		return nil, invalidDefinition(fmt.Sprintf("unknown include mode %q", mode), nil)
	}
}

func (in StrategyInput) hints() *ExecutionEnvironmentHints {
	if in.Hints == nil {
		return NoHints()
	}
	return in.Hints
}

// needsProvider reports whether req must be met by a repository unit.
func (in StrategyInput) needsProvider(req types.Requirement) bool {
	if req.Optional {
		return false
	}
	if !in.Filter.RequirementApplies(req) {
		return false
	}
	return !in.hints().SatisfiedBy(req, in.Index)
}

// seedNeedsProvider is needsProvider without the optional flag, which
// seeds do not honour.
func (in StrategyInput) seedNeedsProvider(req types.Requirement) bool {
	req.Optional = false
	return in.needsProvider(req)
}

// candidates lists the units that may satisfy req: installable on the
// target and not impersonating the execution environment.
func (in StrategyInput) candidates(req types.Requirement) []types.Unit {
	hints := in.hints()
	var out []types.Unit
	for _, unit := range in.Index.Find(req) {
		if hints.Excludes(unit) || !in.Filter.UnitApplies(unit) {
			continue
		}
		out = append(out, unit)
	}
	return out
}

// withSourceUnits adds "<id>.source" units of the same version where the
// index has them.
func withSourceUnits(index *UnitIndex, units []types.Unit) []types.Unit {
	out := append([]types.Unit(nil), units...)
	seen := map[types.UnitKey]bool{}
	for _, unit := range units {
		seen[unit.Key()] = true
	}
	for _, unit := range units {
		source, ok := index.Lookup(types.UnitKey{ID: unit.ID + ".source", Version: unit.Version})
		if !ok || seen[source.Key()] {
			continue
		}
		seen[source.Key()] = true
		out = append(out, source)
	}
	return out
}
