package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"target-platform/internal/types"
)

// Slicer follows mandatory requirements breadth-first and keeps every
// matching unit. It never reports Unsatisfiable; an unmatched seed becomes
// a warning.
type Slicer struct{}

func (Slicer) Resolve(ctx context.Context, input StrategyInput) (StrategyResult, error) {
	logger := log.Ctx(ctx)
	var result StrategyResult
	visited := map[types.UnitKey]bool{}
	var queue []types.Unit
	enqueue := func(units []types.Unit) {
		for _, unit := range units {
			if visited[unit.Key()] {
				continue
			}
			visited[unit.Key()] = true
			queue = append(queue, unit)
		}
	}

	for _, seed := range input.Seeds {
		if !input.seedNeedsProvider(seed) {
			continue
		}
		matches := input.candidates(seed)
		if len(matches) == 0 {
			warning := fmt.Sprintf("no unit matches %s", seed)
			logger.Warn().Str("seed", seed.String()).Msg("slicer seed has no match")
			result.Warnings = append(result.Warnings, warning)
			continue
		}
		enqueue(matches)
	}

	var units []types.Unit
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return StrategyResult{}, cancelled(err)
		}
		unit := queue[0]
		queue = queue[1:]
		units = append(units, unit)
		for _, req := range unit.Requires {
			if !input.needsProvider(req) {
				continue
			}
			enqueue(input.candidates(req))
		}
	}

	if input.IncludeSource {
		units = withSourceUnits(input.Index, units)
	}
	SortUnits(units)
	result.Units = units
	logger.Debug().Int("units", len(units)).Msg("slice complete")
	return result, nil
}
