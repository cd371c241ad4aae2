package adapters

import (
	"os"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

func (a OutputReaderAdapter) ReadResolvedContent(path string) (types.ResolvedContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResolvedContent{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(ResolvedContentFile + " not found").
			WithCause(err)
	}
	var content types.ResolvedContent
	if err := yaml.Unmarshal(data, &content); err != nil {
		return types.ResolvedContent{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid " + ResolvedContentFile + " format").
			WithCause(err)
	}
	return content, nil
}

func (a OutputReaderAdapter) ReadUnitLock(path string) ([]types.UnitLockEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(UnitLockFile + " not found").
			WithCause(err)
	}
	var entries []types.UnitLockEntry
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid " + UnitLockFile + " format")
		}
		entries = append(entries, types.UnitLockEntry{
			ID:      strings.TrimSpace(parts[0]),
			Version: strings.TrimSpace(parts[1]),
		})
	}
	return entries, nil
}

func (a OutputReaderAdapter) ReadResolutionReport(path string) ([]types.LocationDiagnostic, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(ResolutionReportFile + " not found").
			WithCause(err)
	}
	invalid := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("invalid " + ResolutionReportFile + " format")
	var diagnostics []types.LocationDiagnostic
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 8)
		if len(parts) != 8 {
			return nil, invalid
		}
		index, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, invalid.WithCause(err)
		}
		units, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, invalid.WithCause(err)
		}
		duration, err := strconv.ParseInt(parts[5], 10, 64)
		if err != nil {
			return nil, invalid.WithCause(err)
		}
		diagnostic := types.LocationDiagnostic{
			Index:      index,
			Name:       parts[1],
			Mode:       types.IncludeMode(parts[2]),
			Status:     types.LocationStatus(parts[3]),
			UnitCount:  units,
			DurationMs: duration,
			Error:      parts[7],
		}
		if parts[6] != "" {
			diagnostic.Warnings = strings.Split(parts[6], ";")
		}
		diagnostics = append(diagnostics, diagnostic)
	}
	return diagnostics, nil
}

var _ ports.OutputReaderPort = OutputReaderAdapter{}
