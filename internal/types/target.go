package types

// RepositoryRef points at one metadata repository. Location is a file
// path, a directory containing content.yaml, or an http(s) URL.
type RepositoryRef struct {
	ID       string `yaml:"id,omitempty"`
	Location string `yaml:"location"`
}

func (r RepositoryRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Location
}

// SeedUnit names a root unit by id and version. An empty version or
// "0.0.0" means any version.
type SeedUnit struct {
	ID      string `yaml:"id"`
	Version string `yaml:"version,omitempty"`
}

// Environment is one target platform configuration that requirement
// filters are evaluated against.
type Environment struct {
	OS         string            `yaml:"os,omitempty"`
	WS         string            `yaml:"ws,omitempty"`
	Arch       string            `yaml:"arch,omitempty"`
	Properties map[string]string `yaml:"properties,omitempty"`
}

type Location struct {
	Name                   string          `yaml:"name,omitempty"`
	IncludeMode            IncludeMode     `yaml:"include_mode"`
	IncludeAllEnvironments bool            `yaml:"include_all_environments,omitempty"`
	IncludeSource          bool            `yaml:"include_source,omitempty"`
	Repositories           []RepositoryRef `yaml:"repositories"`
	Units                  []SeedUnit      `yaml:"units,omitempty"`
	Requirements           []Requirement   `yaml:"requirements,omitempty"`
}

// TargetDefinition is an ordered list of locations. Order only affects
// diagnostics, never the resolved set.
type TargetDefinition struct {
	Name                 string        `yaml:"name,omitempty"`
	ExecutionEnvironment string        `yaml:"execution_environment,omitempty"`
	Environments         []Environment `yaml:"environments,omitempty"`
	Locations            []Location    `yaml:"locations"`
}
