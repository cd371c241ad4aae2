package app

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"target-platform/internal/adapters"
)

func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	content, err := s.OutputReader.ReadResolvedContent(filepath.Join(outputDir, adapters.ResolvedContentFile))
	if err != nil {
		return InspectResult{}, err
	}
	lock, err := s.OutputReader.ReadUnitLock(filepath.Join(outputDir, adapters.UnitLockFile))
	if err != nil {
		return InspectResult{}, err
	}
	report, err := s.OutputReader.ReadResolutionReport(filepath.Join(outputDir, adapters.ResolutionReportFile))
	if err != nil {
		return InspectResult{}, err
	}

	var synthetic []string
	for _, unit := range content.Units {
		if unit.Synthetic {
			synthetic = append(synthetic, unit.Key().String())
		}
	}
	sort.Strings(synthetic)
	return InspectResult{
		ResolutionID:         content.ResolutionID,
		TargetName:           content.Target,
		ExecutionEnvironment: content.ExecutionEnvironment,
		ResolvedAt:           content.ResolvedAt,
		UnitCount:            len(content.Units),
		LockCount:            len(lock),
		SyntheticUnits:       synthetic,
		Locations:            report,
	}, nil
}
