package core

import (
	"regexp"
	"sort"
	"strings"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

// DefaultJREPrefix names synthetic runtime units, e.g. "a.jre.javase".
const DefaultJREPrefix = "a.jre"

var javaLineagePattern = regexp.MustCompile(`^(JRE|J2SE|JavaSE)-([0-9]+(?:\.[0-9]+)?)$`)
var autoEnvironmentPattern = regexp.MustCompile(`^(J2SE|JavaSE)-([0-9]+(?:\.[0-9]+)?)$`)

// ExecutionEnvironmentHints describes what a runtime provides for free.
// It is immutable after construction and shared by all locations of a
// resolver.
type ExecutionEnvironmentHints struct {
	Name           string
	Auto           bool
	Satisfied      []types.Capability
	SyntheticUnits []types.Unit

	satisfied map[capabilityKey][]types.Capability
	cache     *versionCache
}

// NoHints is the value for an absent execution environment: nothing is
// pre-satisfied and nothing is excluded.
func NoHints() *ExecutionEnvironmentHints {
	return &ExecutionEnvironmentHints{
		satisfied: map[capabilityKey][]types.Capability{},
		cache:     newVersionCache(),
	}
}

// EEHintsResolver derives hints from the known profile table.
type EEHintsResolver struct {
	Profiles ports.ProfileTablePort
	Prefix   string
}

// Hints computes hints for name. An empty name yields NoHints. Names that
// are neither in the table nor auto-derivable fail with
// UnknownEnvironment.
func (r EEHintsResolver) Hints(name string) (*ExecutionEnvironmentHints, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoHints(), nil
	}
	if match := autoEnvironmentPattern.FindStringSubmatch(name); match != nil {
		return r.autoHints(name, match[2]), nil
	}
	if r.Profiles == nil {
		return nil, unknownEnvironment(name)
	}
	profile, ok := r.Profiles.Lookup(name)
	if !ok {
		return nil, unknownEnvironment(name)
	}
	hints := NoHints()
	hints.Name = name
	for _, capability := range profile.Packages {
		hints.addSatisfied(normalizePackage(capability))
	}
	hints.addSatisfied(types.Capability{Namespace: types.NamespaceEE, Name: name})
	return hints, nil
}

func (r EEHintsResolver) autoHints(name string, version string) *ExecutionEnvironmentHints {
	hints := NoHints()
	hints.Name = name
	hints.Auto = true

	if r.Profiles != nil {
		for _, profile := range r.Profiles.List() {
			match := javaLineagePattern.FindStringSubmatch(profile.Name)
			if match == nil {
				continue
			}
			cmp, err := hints.cache.compare(types.VersionSchemeOSGi, match[2], version)
			if err != nil || cmp > 0 {
				continue
			}
			for _, capability := range profile.Packages {
				hints.addSatisfied(normalizePackage(capability))
			}
		}
	}

	prefix := r.Prefix
	if prefix == "" {
		prefix = DefaultJREPrefix
	}
	synthetic := types.Unit{
		ID:         prefix + ".javase",
		Version:    padVersion(version),
		Scheme:     types.VersionSchemeOSGi,
		Provenance: "execution-environment:" + name,
		Synthetic:  true,
		Provides: []types.Capability{
			{Namespace: types.NamespaceJRE, Name: prefix + ".javase"},
			{Namespace: types.NamespaceEE, Name: name},
		},
	}
	for _, capability := range hints.Satisfied {
		synthetic.Provides = append(synthetic.Provides, capability)
	}
	for _, capability := range providedCapabilities(synthetic) {
		hints.addSatisfied(capability)
	}
	hints.SyntheticUnits = []types.Unit{synthetic}
	sort.SliceStable(hints.Satisfied, func(i, j int) bool {
		return hints.Satisfied[i].String() < hints.Satisfied[j].String()
	})
	return hints
}

func (h *ExecutionEnvironmentHints) addSatisfied(capability types.Capability) {
	key := keyOfCapability(capability)
	for _, existing := range h.satisfied[key] {
		if existing == capability {
			return
		}
	}
	h.satisfied[key] = append(h.satisfied[key], capability)
	h.Satisfied = append(h.Satisfied, capability)
}

// Covers reports whether the runtime itself provides req.
func (h *ExecutionEnvironmentHints) Covers(req types.Requirement) bool {
	candidates := h.satisfied[keyOfRequirement(req)]
	if len(candidates) == 0 {
		return false
	}
	within, err := h.cache.versionRange(req.Range)
	if err != nil {
		return false
	}
	for _, capability := range candidates {
		if capabilityMatches(h.cache, types.VersionSchemeOSGi, capability, req, within) {
			return true
		}
	}
	return false
}

// Excludes reports whether a repository unit impersonates the runtime:
// it carries the JRE marker, or claims to be the active environment.
// Synthetic units are never excluded.
func (h *ExecutionEnvironmentHints) Excludes(unit types.Unit) bool {
	if h.Name == "" || unit.Synthetic {
		return false
	}
	for _, capability := range unit.Provides {
		if capability.Namespace == types.NamespaceJRE {
			return true
		}
		if capability.Namespace == types.NamespaceEE && capability.Name == h.Name {
			return true
		}
	}
	return false
}

// ExclusionPredicate exposes Excludes as a value.
func (h *ExecutionEnvironmentHints) ExclusionPredicate() types.UnitPredicate {
	return h.Excludes
}

// SatisfiedBy reports whether req needs no repository unit: either the
// runtime covers it, or every repository candidate is an impersonator that
// the runtime replaces.
func (h *ExecutionEnvironmentHints) SatisfiedBy(req types.Requirement, index *UnitIndex) bool {
	if h.Covers(req) {
		return true
	}
	if h.Name == "" || index == nil {
		return false
	}
	candidates := index.Find(req)
	if len(candidates) == 0 {
		return false
	}
	for _, candidate := range candidates {
		if !h.Excludes(candidate) {
			return false
		}
	}
	return true
}

func normalizePackage(capability types.Capability) types.Capability {
	if capability.Namespace == "" {
		capability.Namespace = types.NamespacePackage
	}
	return capability
}

// padVersion pads a numeric version to three segments: "1.7" -> "1.7.0".
func padVersion(version string) string {
	parts := strings.Split(version, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts, ".")
}
