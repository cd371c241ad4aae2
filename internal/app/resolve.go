package app

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"target-platform/internal/adapters"
	"target-platform/internal/core"
	"target-platform/internal/ports"
	"target-platform/internal/types"
)

// Resolve resolves a target definition and writes the outputs. On
// failure only resolution.report is written, so a failed run never
// leaves a lock file behind.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	def, err := s.loadTarget(req.TargetPath)
	if err != nil {
		return ResolveResult{}, err
	}
	emitHints(checkResolveHints(req.ExecutionEnvironment, def))
	def = withEnvironment(def, req.ExecutionEnvironment)

	profiles, err := adapters.NewProfileTableAdapter(req.ProfilesFile)
	if err != nil {
		return ResolveResult{}, err
	}
	loader := adapters.NewRepositoryLoaderAdapter("", req.HTTPTimeoutSec, req.HTTPRetries, req.HTTPRetryDelayMs).
		WithCredentials(req.HTTPUser, req.HTTPAPIKey)
	metrics := adapters.NewMetricsTextfileAdapter(strings.TrimSpace(req.MetricsTextfile))

	resolver, err := core.NewTargetResolver(core.TargetResolverConfig{
		Loader:               loader,
		Profiles:             profiles,
		ExecutionEnvironment: def.ExecutionEnvironment,
		JREPrefix:            strings.TrimSpace(req.JREPrefix),
		Parallelism:          req.Parallelism,
	})
	if err != nil {
		return ResolveResult{}, finishResolution(ctx, metrics, types.ResolvedContent{Target: def.Name}, err)
	}

	content, err := resolver.Resolve(ctx, def)
	content.ResolutionID = s.newID()
	content.ResolvedAt = s.now().UTC().Format(time.RFC3339)
	result := ResolveResult{
		ResolutionID:         content.ResolutionID,
		TargetName:           content.Target,
		ExecutionEnvironment: content.ExecutionEnvironment,
		OutputDir:            outputDir,
		UnitCount:            len(content.Units),
		Diagnostics:          content.Diagnostics,
	}
	output := adapters.NewOutputFileAdapter(outputDir)
	if err != nil {
		if len(content.Diagnostics) > 0 {
			if writeErr := output.WriteResolutionReport(content.Diagnostics); writeErr != nil {
				log.Ctx(ctx).Warn().Err(writeErr).Msg("failed to write resolution report")
			}
		}
		return result, finishResolution(ctx, metrics, content, err)
	}

	if err := writeOutputs(output, content); err != nil {
		return result, finishResolution(ctx, metrics, content, err)
	}
	if req.SBOM {
		if err := adapters.NewSBOMWriterAdapter(outputDir).WriteSBOM(content); err != nil {
			return result, finishResolution(ctx, metrics, content, err)
		}
	}
	return result, finishResolution(ctx, metrics, content, nil)
}

func writeOutputs(output ports.OutputPort, content types.ResolvedContent) error {
	if err := output.WriteResolvedContent(content); err != nil {
		return err
	}
	entries := make([]types.UnitLockEntry, 0, len(content.Units))
	for _, unit := range content.Units {
		entries = append(entries, types.UnitLockEntry{ID: unit.ID, Version: unit.Version})
	}
	if err := output.WriteUnitLock(entries); err != nil {
		return err
	}
	return output.WriteResolutionReport(content.Diagnostics)
}

// finishResolution records the outcome and returns err unchanged. A flush
// failure is only reported when the resolution itself succeeded.
func finishResolution(ctx context.Context, metrics ports.MetricsPort, content types.ResolvedContent, err error) error {
	metrics.ObserveResolution(content, err)
	if flushErr := metrics.Flush(); flushErr != nil {
		if err == nil {
			return flushErr
		}
		log.Ctx(ctx).Warn().Err(flushErr).Msg("failed to write metrics")
	}
	return err
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
