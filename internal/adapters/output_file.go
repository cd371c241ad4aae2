package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

const (
	ResolvedContentFile  = "target-platform.yaml"
	UnitLockFile         = "units.lock"
	ResolutionReportFile = "resolution.report"
)

type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

func (a OutputFileAdapter) WriteResolvedContent(content types.ResolvedContent) error {
	path, err := a.ensurePath(ResolvedContentFile)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(content)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode resolved content").
			WithCause(err)
	}
	return os.WriteFile(path, data, 0644)
}

func (a OutputFileAdapter) WriteUnitLock(entries []types.UnitLockEntry) error {
	path, err := a.ensurePath(UnitLockFile)
	if err != nil {
		return err
	}
	ordered := append([]types.UnitLockEntry(nil), entries...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ID != ordered[j].ID {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Version < ordered[j].Version
	})
	var lines []string
	for _, entry := range ordered {
		lines = append(lines, fmt.Sprintf("%s=%s", entry.ID, entry.Version))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644)
}

// WriteResolutionReport writes one line per location:
// index,name,mode,status,units,duration_ms,warnings,error. Warnings are
// joined with ";" and the error takes the rest of the line.
func (a OutputFileAdapter) WriteResolutionReport(diagnostics []types.LocationDiagnostic) error {
	path, err := a.ensurePath(ResolutionReportFile)
	if err != nil {
		return err
	}
	ordered := append([]types.LocationDiagnostic(nil), diagnostics...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})
	var lines []string
	for _, d := range ordered {
		lines = append(lines, fmt.Sprintf(
			"%d,%s,%s,%s,%d,%d,%s,%s",
			d.Index,
			reportField(d.Name),
			d.Mode,
			d.Status,
			d.UnitCount,
			d.DurationMs,
			reportField(strings.Join(d.Warnings, ";")),
			singleLine(d.Error),
		))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644)
}

func reportField(value string) string {
	return strings.ReplaceAll(singleLine(value), ",", " ")
}

func singleLine(value string) string {
	return strings.ReplaceAll(value, "\n", " ")
}

func (a OutputFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

var _ ports.OutputPort = OutputFileAdapter{}
