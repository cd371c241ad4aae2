package core

import (
	"context"
	"fmt"

	"github.com/crillab/gophersat/solver"
	"github.com/rs/zerolog/log"

	"target-platform/internal/types"
)

// Planner computes a consistent closure with at most one version per unit
// id and every mandatory requirement satisfied. Higher versions win first;
// among equally ranked plans the one with fewer units wins. The search is
// delegated to a SAT solver.
type Planner struct{}

// planState holds the bookkeeping for one solver invocation.
type planState struct {
	input       StrategyInput
	units       []types.Unit
	ids         map[types.UnitKey]int
	byName      map[string][]int
	costLits    []solver.Lit
	costWeights []int
}

func (Planner) Resolve(ctx context.Context, input StrategyInput) (StrategyResult, error) {
	logger := log.Ctx(ctx)
	seeds := make([]types.Requirement, 0, len(input.Seeds))
	for _, seed := range input.Seeds {
		if input.seedNeedsProvider(seed) {
			seeds = append(seeds, seed)
		}
	}
	for _, seed := range seeds {
		if len(input.candidates(seed)) == 0 {
			return StrategyResult{}, unsatisfiable("no unit matches seed", "", &seed)
		}
	}
	if len(seeds) == 0 {
		return StrategyResult{}, nil
	}

	reachable, err := reachableUnits(ctx, input, seeds)
	if err != nil {
		return StrategyResult{}, err
	}
	state := buildPlanState(input, reachable)
	clauses := state.clauses(seeds)
	logger.Debug().
		Int("variables", len(state.units)).
		Int("clauses", len(clauses)).
		Msg("planner problem built")

	if err := ctx.Err(); err != nil {
		return StrategyResult{}, cancelled(err)
	}
	selected, ok := state.solve(clauses)
	if !ok {
		return StrategyResult{}, state.explain(seeds)
	}
	if input.IncludeSource {
		selected = withSourceUnits(input.Index, selected)
	}
	SortUnits(selected)
	logger.Debug().Int("units", len(selected)).Msg("plan complete")
	return StrategyResult{Units: selected}, nil
}

// reachableUnits is the closure of every candidate of every seed over
// mandatory, applicable requirements the runtime does not cover.
func reachableUnits(ctx context.Context, input StrategyInput, seeds []types.Requirement) ([]types.Unit, error) {
	visited := map[types.UnitKey]bool{}
	var queue, out []types.Unit
	push := func(units []types.Unit) {
		for _, unit := range units {
			if !visited[unit.Key()] {
				visited[unit.Key()] = true
				queue = append(queue, unit)
			}
		}
	}
	for _, seed := range seeds {
		push(input.candidates(seed))
	}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}
		unit := queue[0]
		queue = queue[1:]
		out = append(out, unit)
		for _, req := range unit.Requires {
			if input.needsProvider(req) {
				push(input.candidates(req))
			}
		}
	}
	return out, nil
}

// buildPlanState assigns one SAT variable per reachable unit. Variables are
// numbered in sorted unit order so the problem, and therefore the model,
// is the same on every run.
func buildPlanState(input StrategyInput, reachable []types.Unit) planState {
	units := append([]types.Unit(nil), reachable...)
	sortUnitsWith(input.Index.cache, units)
	s := planState{
		input:  input,
		units:  units,
		ids:    make(map[types.UnitKey]int, len(units)),
		byName: map[string][]int{},
	}
	for i, unit := range units {
		id := i + 1
		s.ids[unit.Key()] = id
		s.byName[unit.ID] = append(s.byName[unit.ID], id)
	}
	// Versions ascend within a name, so the last one has rank 0. One rank
	// step outweighs selecting every reachable unit, so unit count only
	// breaks ties between plans of equal rank.
	step := len(units) + 1
	for _, ids := range s.byName {
		for i, id := range ids {
			rank := len(ids) - 1 - i
			s.costLits = append(s.costLits, solver.IntToLit(int32(id))) //nolint:gosec // bounded by the number of reachable units
			s.costWeights = append(s.costWeights, rank*step+1)
		}
	}
	return s
}

// clauses generates three kinds of clauses:
//  1. At-most-one: only one version of each unit id can be selected.
//  2. Seeds: each seed must have at least one selected candidate.
//  3. Requirements: a selected unit implies one of its providers.
func (s planState) clauses(seeds []types.Requirement) [][]int {
	var clauses [][]int

	for _, unit := range s.units {
		ids := s.byName[unit.ID]
		if ids[0] != s.ids[unit.Key()] {
			continue
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				clauses = append(clauses, []int{-ids[i], -ids[j]})
			}
		}
	}

	for _, seed := range seeds {
		clauses = append(clauses, s.variablesFor(seed))
	}

	for _, unit := range s.units {
		id := s.ids[unit.Key()]
		for _, req := range unit.Requires {
			if !s.input.needsProvider(req) {
				continue
			}
			candidates := s.variablesFor(req)
			if len(candidates) == 0 {
				clauses = append(clauses, []int{-id})
				continue
			}
			clauses = append(clauses, append([]int{-id}, candidates...))
		}
	}
	return clauses
}

func (s planState) variablesFor(req types.Requirement) []int {
	var out []int
	for _, unit := range s.input.candidates(req) {
		if id, ok := s.ids[unit.Key()]; ok {
			out = append(out, id)
		}
	}
	return uniqueInts(out)
}

// solve minimises the cost function and returns the selected units.
func (s planState) solve(clauses [][]int) ([]types.Unit, bool) {
	problem := solver.ParseSliceNb(clauses, len(s.units))
	problem.SetCostFunc(s.costLits, s.costWeights)
	sat := solver.New(problem)
	if cost := sat.Minimize(); cost < 0 {
		return nil, false
	}
	model := sat.Model()
	var selected []types.Unit
	for i, unit := range s.units {
		if i < len(model) && model[i] {
			selected = append(selected, unit)
		}
	}
	return selected, true
}

// explain names the most specific reason no assignment exists. A missing
// provider is only blamed on a unit the plan cannot avoid: a requirement
// is reported when every one of its candidates has a requirement nothing
// provides, starting from the seeds and following sole-candidate edges.
func (s planState) explain(seeds []types.Requirement) error {
	if err := s.explainMissingProvider(seeds); err != nil {
		return err
	}
	for i := 0; i < len(seeds); i++ {
		for j := i + 1; j < len(seeds); j++ {
			if name, ok := s.disjointPins(seeds[i], seeds[j]); ok {
				return unsatisfiable(
					fmt.Sprintf("seeds %s and %s require different versions of %s", seeds[i], seeds[j], name),
					"", nil)
			}
		}
	}
	return unsatisfiable("no consistent assignment satisfies every seed", "", nil)
}

func (s planState) explainMissingProvider(seeds []types.Requirement) error {
	missing := map[types.UnitKey]types.Requirement{}
	for _, unit := range s.units {
		for _, req := range unit.Requires {
			if s.input.needsProvider(req) && len(s.input.candidates(req)) == 0 {
				missing[unit.Key()] = req
				break
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}

	visited := map[types.UnitKey]bool{}
	var forced []types.Unit
	// check reports req when none of its candidates is usable and queues
	// its candidate when there is only one.
	check := func(req types.Requirement) error {
		candidates := s.input.candidates(req)
		if len(candidates) == 0 {
			return nil
		}
		for _, candidate := range candidates {
			if _, ok := missing[candidate.Key()]; !ok {
				if len(candidates) == 1 && !visited[candidate.Key()] {
					visited[candidate.Key()] = true
					forced = append(forced, candidate)
				}
				return nil
			}
		}
		blamed := s.highest(candidates)
		cause := missing[blamed.Key()]
		return unsatisfiable("no provider for mandatory requirement", blamed.Key().String(), &cause)
	}

	for _, seed := range seeds {
		if err := check(seed); err != nil {
			return err
		}
	}
	for len(forced) > 0 {
		unit := forced[0]
		forced = forced[1:]
		for _, req := range unit.Requires {
			if !s.input.needsProvider(req) {
				continue
			}
			if err := check(req); err != nil {
				return err
			}
		}
	}
	return nil
}

// highest returns the candidate the solver would have preferred: the last
// one in sorted unit order.
func (s planState) highest(candidates []types.Unit) types.Unit {
	best, bestID := candidates[0], s.ids[candidates[0].Key()]
	for _, candidate := range candidates[1:] {
		if id := s.ids[candidate.Key()]; id > bestID {
			best, bestID = candidate, id
		}
	}
	return best
}

// disjointPins reports whether a and b can each only be met by versions of
// the same unit id and share no version.
func (s planState) disjointPins(a types.Requirement, b types.Requirement) (string, bool) {
	left := s.input.candidates(a)
	right := s.input.candidates(b)
	name, ok := singleName(left)
	if !ok {
		return "", false
	}
	if other, ok := singleName(right); !ok || other != name {
		return "", false
	}
	versions := map[string]bool{}
	for _, unit := range left {
		versions[unit.Version] = true
	}
	for _, unit := range right {
		if versions[unit.Version] {
			return "", false
		}
	}
	return name, true
}

func singleName(units []types.Unit) (string, bool) {
	if len(units) == 0 {
		return "", false
	}
	name := units[0].ID
	for _, unit := range units[1:] {
		if unit.ID != name {
			return "", false
		}
	}
	return name, true
}

// uniqueInts deduplicates a slice of ints while preserving order.
func uniqueInts(values []int) []int {
	seen := map[int]struct{}{}
	out := make([]int, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
