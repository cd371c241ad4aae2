package types

type IncludeMode string

const (
	IncludeModePlanner IncludeMode = "planner"
	IncludeModeSlicer  IncludeMode = "slicer"
)

type VersionScheme string

const (
	VersionSchemeOSGi   VersionScheme = "osgi"
	VersionSchemeDebian VersionScheme = "debian"
	VersionSchemePEP440 VersionScheme = "pep440"
)

// Capability namespaces understood by the resolver. Repositories may use
// any other namespace; these are the ones with special meaning.
const (
	NamespaceUnit    = "unit"
	NamespacePackage = "package"
	NamespaceBundle  = "bundle"
	NamespaceJRE     = "jre"
	NamespaceEE      = "ee"
)

type LocationStatus string

const (
	LocationStatusResolved LocationStatus = "resolved"
	LocationStatusFailed   LocationStatus = "failed"
	LocationStatusSkipped  LocationStatus = "skipped"
)
