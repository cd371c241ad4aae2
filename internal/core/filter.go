package core

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"target-platform/internal/types"
)

// EnvironmentFilter evaluates requirement and unit filters against the
// environments of a target definition. A filter applies when it holds for
// at least one environment. A nil filter, or one built without
// environments, accepts everything.
type EnvironmentFilter struct {
	environments []map[string]any
	mu           sync.Mutex
	programs     map[string]*exprvm.Program
}

func NewEnvironmentFilter(environments []types.Environment) *EnvironmentFilter {
	f := &EnvironmentFilter{programs: map[string]*exprvm.Program{}}
	for _, env := range environments {
		f.environments = append(f.environments, environmentVariables(env))
	}
	return f
}

func environmentVariables(env types.Environment) map[string]any {
	vars := map[string]any{}
	for key, value := range env.Properties {
		vars[key] = value
	}
	vars["os"] = env.OS
	vars["ws"] = env.WS
	vars["arch"] = env.Arch
	return vars
}

// RequirementApplies reports whether req is relevant for the target. A
// filter that fails to evaluate is treated as applicable.
func (f *EnvironmentFilter) RequirementApplies(req types.Requirement) bool {
	return f.accepts(req.Filter)
}

// UnitApplies reports whether unit is installable on some target
// environment.
func (f *EnvironmentFilter) UnitApplies(unit types.Unit) bool {
	return f.accepts(unit.Filter)
}

func (f *EnvironmentFilter) accepts(expression string) bool {
	if f == nil || len(f.environments) == 0 || strings.TrimSpace(expression) == "" {
		return true
	}
	ok, err := f.Matches(expression)
	if err != nil {
		return true
	}
	return ok
}

// Matches evaluates expression against each environment and reports
// whether any of them satisfies it.
func (f *EnvironmentFilter) Matches(expression string) (bool, error) {
	program, err := f.program(expression)
	if err != nil {
		return false, err
	}
	for _, env := range f.environments {
		result, err := exprlang.Run(program, env)
		if err != nil {
			return false, filterError(expression, err)
		}
		matched, ok := result.(bool)
		if !ok {
			return false, filterError(expression, fmt.Errorf("filter returned %T, not bool", result))
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func (f *EnvironmentFilter) program(expression string) (*exprvm.Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if program, ok := f.programs[expression]; ok {
		return program, nil
	}
	program, err := compileFilter(expression)
	if err != nil {
		return nil, err
	}
	f.programs[expression] = program
	return program, nil
}

func compileFilter(expression string) (*exprvm.Program, error) {
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, filterError(expression, err)
	}
	return program, nil
}

// ValidateFilter checks that expression compiles. Empty filters are valid.
func ValidateFilter(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return nil
	}
	_, err := compileFilter(expression)
	return err
}

func filterError(expression string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid filter %q", expression)).
		WithCause(err)
}
