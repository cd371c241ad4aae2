package app

import "target-platform/internal/types"

type ValidateRequest struct {
	TargetPath           string
	ExecutionEnvironment string
	ProfilesFile         string
	JREPrefix            string
}

type ValidateResult struct {
	TargetName           string
	ExecutionEnvironment string
	Locations            int
}

type ResolveRequest struct {
	TargetPath           string
	ExecutionEnvironment string
	OutputDir            string
	ProfilesFile         string
	JREPrefix            string
	Parallelism          int
	MetricsTextfile      string
	SBOM                 bool
	HTTPUser             string
	HTTPAPIKey           string
	HTTPTimeoutSec       int
	HTTPRetries          int
	HTTPRetryDelayMs     int
}

type ResolveResult struct {
	ResolutionID         string
	TargetName           string
	ExecutionEnvironment string
	OutputDir            string
	UnitCount            int
	Diagnostics          []types.LocationDiagnostic
}

type InspectRequest struct {
	OutputDir string
}

type InspectResult struct {
	ResolutionID         string
	TargetName           string
	ExecutionEnvironment string
	ResolvedAt           string
	UnitCount            int
	LockCount            int
	SyntheticUnits       []string
	Locations            []types.LocationDiagnostic
}

type ProfilesRequest struct {
	ProfilesFile string
	Name         string
	JREPrefix    string
}

type ProfileSummary struct {
	Name     string
	Packages int
}

type ProfilesResult struct {
	Profiles []ProfileSummary
	// Set when a single environment was requested.
	Detail *ProfileDetail
}

type ProfileDetail struct {
	Name           string
	Auto           bool
	Satisfied      []string
	SyntheticUnits []string
}
