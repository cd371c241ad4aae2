package types

// RepositoryFile is the YAML layout of a metadata repository.
type RepositoryFile struct {
	Name          string        `yaml:"name"`
	VersionScheme VersionScheme `yaml:"version_scheme,omitempty"`
	Units         []Unit        `yaml:"units"`
}
