package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"target-platform/internal/adapters"
	"target-platform/internal/core"
	"target-platform/internal/types"
)

// Validate checks a target definition and its execution environment
// without opening any repository.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	def, err := s.loadTarget(req.TargetPath)
	if err != nil {
		return ValidateResult{}, err
	}
	def = withEnvironment(def, req.ExecutionEnvironment)
	profiles, err := adapters.NewProfileTableAdapter(req.ProfilesFile)
	if err != nil {
		return ValidateResult{}, err
	}
	if err := core.ValidateDefinition(def); err != nil {
		return ValidateResult{}, err
	}
	hints, err := core.EEHintsResolver{Profiles: profiles, Prefix: req.JREPrefix}.Hints(def.ExecutionEnvironment)
	if err != nil {
		return ValidateResult{}, err
	}
	log.Ctx(ctx).Debug().
		Str("target", def.Name).
		Str("ee", hints.Name).
		Int("locations", len(def.Locations)).
		Msg("target definition valid")
	return ValidateResult{
		TargetName:           def.Name,
		ExecutionEnvironment: hints.Name,
		Locations:            len(def.Locations),
	}, nil
}

func (s Service) loadTarget(path string) (types.TargetDefinition, error) {
	targetPath := strings.TrimSpace(path)
	if targetPath == "" {
		targetPath = discoverTarget(".")
	}
	if targetPath == "" {
		return types.TargetDefinition{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("target definition path is required")
	}
	return s.TargetLoader.LoadTarget(targetPath)
}

// withEnvironment applies an execution environment override. An empty
// override keeps the one declared in the definition.
func withEnvironment(def types.TargetDefinition, override string) types.TargetDefinition {
	if value := strings.TrimSpace(override); value != "" {
		def.ExecutionEnvironment = value
	}
	return def
}
