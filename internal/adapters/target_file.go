package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

type TargetFileAdapter struct{}

func NewTargetFileAdapter() TargetFileAdapter {
	return TargetFileAdapter{}
}

// LoadTarget reads a target definition. Relative local repository
// locations are taken relative to the file's directory.
func (a TargetFileAdapter) LoadTarget(path string) (types.TargetDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.TargetDefinition{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("target definition file not found").
			WithCause(err)
	}
	var def types.TargetDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return types.TargetDefinition{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse target definition yaml").
			WithCause(err)
	}
	base := filepath.Dir(path)
	for i := range def.Locations {
		loc := &def.Locations[i]
		loc.IncludeMode = types.IncludeMode(strings.ToLower(strings.TrimSpace(string(loc.IncludeMode))))
		for j := range loc.Repositories {
			ref := &loc.Repositories[j]
			if ref.Location == "" || isHTTPLocation(ref.Location) {
				continue
			}
			local := strings.TrimPrefix(ref.Location, "file://")
			if !filepath.IsAbs(local) {
				ref.Location = filepath.Join(base, local)
			}
		}
	}
	return def, nil
}

var _ ports.TargetDefinitionPort = TargetFileAdapter{}
