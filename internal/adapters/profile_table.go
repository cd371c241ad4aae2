package adapters

import (
	_ "embed"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

//go:embed profiles/default.yaml
var defaultProfiles []byte

// ProfileTableAdapter is the known execution environment table: the
// embedded defaults, optionally overlaid by a user file whose entries
// replace defaults of the same name.
type ProfileTableAdapter struct {
	profiles []types.ExecutionEnvironmentProfile
	byName   map[string]int
}

func NewProfileTableAdapter(overlayPath string) (*ProfileTableAdapter, error) {
	table := &ProfileTableAdapter{byName: map[string]int{}}
	if err := table.merge(defaultProfiles, "embedded profiles"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(overlayPath) == "" {
		return table, nil
	}
	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("profiles file not found").
			WithCause(err)
	}
	if err := table.merge(data, overlayPath); err != nil {
		return nil, err
	}
	return table, nil
}

func (t *ProfileTableAdapter) merge(data []byte, source string) error {
	var file types.ProfileTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + source).
			WithCause(err)
	}
	for _, entry := range file.Profiles {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(source + ": profile without name")
		}
		profile := types.ExecutionEnvironmentProfile{Name: name}
		for _, pkg := range entry.Packages {
			profile.Packages = append(profile.Packages, types.Capability{
				Namespace: types.NamespacePackage,
				Name:      strings.TrimSpace(pkg),
				Version:   entry.Version,
			})
		}
		if position, ok := t.byName[name]; ok {
			t.profiles[position] = profile
			continue
		}
		t.byName[name] = len(t.profiles)
		t.profiles = append(t.profiles, profile)
	}
	return nil
}

func (t *ProfileTableAdapter) Lookup(name string) (types.ExecutionEnvironmentProfile, bool) {
	position, ok := t.byName[name]
	if !ok {
		return types.ExecutionEnvironmentProfile{}, false
	}
	return t.profiles[position], true
}

// List returns every profile in table order.
func (t *ProfileTableAdapter) List() []types.ExecutionEnvironmentProfile {
	return append([]types.ExecutionEnvironmentProfile(nil), t.profiles...)
}

var _ ports.ProfileTablePort = (*ProfileTableAdapter)(nil)
