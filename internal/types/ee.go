package types

// ExecutionEnvironmentProfile is one entry of the known profile table:
// the packages a runtime of that name provides.
type ExecutionEnvironmentProfile struct {
	Name     string       `yaml:"name"`
	Packages []Capability `yaml:"packages"`
}

// ProfileTableFile is the on-disk layout of a profile table.
type ProfileTableFile struct {
	Profiles []ProfileTableEntry `yaml:"profiles"`
}

// ProfileTableEntry lists packages by name; Version is applied to all of
// them and is usually empty.
type ProfileTableEntry struct {
	Name     string   `yaml:"name"`
	Version  string   `yaml:"version,omitempty"`
	Packages []string `yaml:"packages"`
}
