package types

// LocationDiagnostic reports the outcome of one location.
type LocationDiagnostic struct {
	Index      int            `yaml:"index"`
	Name       string         `yaml:"name"`
	Mode       IncludeMode    `yaml:"mode"`
	Status     LocationStatus `yaml:"status"`
	UnitCount  int            `yaml:"unit_count"`
	DurationMs int64          `yaml:"duration_ms"`
	Warnings   []string       `yaml:"warnings,omitempty"`
	Error      string         `yaml:"error,omitempty"`
}

// ResolvedContent is the deduplicated result of resolving a target
// definition. Units are sorted by id and version.
type ResolvedContent struct {
	ResolutionID         string               `yaml:"resolution_id,omitempty"`
	Target               string               `yaml:"target,omitempty"`
	ExecutionEnvironment string               `yaml:"execution_environment,omitempty"`
	ResolvedAt           string               `yaml:"resolved_at,omitempty"`
	Units                []Unit               `yaml:"units"`
	Diagnostics          []LocationDiagnostic `yaml:"diagnostics"`
}

// UnitLockEntry is one line of units.lock.
type UnitLockEntry struct {
	ID      string
	Version string
}
