package core

import (
	"sort"

	"target-platform/internal/types"
)

type capabilityKey struct {
	namespace string
	name      string
}

func keyOfCapability(c types.Capability) capabilityKey {
	return capabilityKey{namespace: c.Namespace, name: c.Name}
}

func keyOfRequirement(r types.Requirement) capabilityKey {
	return capabilityKey{namespace: r.Namespace, name: r.Name}
}

// providedCapabilities returns the unit's identity followed by its
// declared capabilities.
func providedCapabilities(unit types.Unit) []types.Capability {
	out := make([]types.Capability, 0, len(unit.Provides)+1)
	out = append(out, unit.Identity())
	for _, capability := range unit.Provides {
		if capability.Namespace == types.NamespaceUnit && capability.Name == unit.ID {
			continue
		}
		out = append(out, capability)
	}
	return out
}

// capabilityMatches applies the matching rule: same namespace and name, and
// the provided version inside the range. Unversioned capabilities match
// any range.
func capabilityMatches(cache *versionCache, scheme types.VersionScheme, capability types.Capability, req types.Requirement, within VersionRange) bool {
	if capability.Namespace != req.Namespace || capability.Name != req.Name {
		return false
	}
	if capability.Version == "" {
		return true
	}
	return within.Contains(cache, scheme, capability.Version)
}

// UnitProvides reports whether unit provides a capability matching req.
func UnitProvides(unit types.Unit, req types.Requirement) bool {
	within, err := ParseVersionRange(req.Range)
	if err != nil {
		return false
	}
	cache := newVersionCache()
	for _, capability := range providedCapabilities(unit) {
		if capabilityMatches(cache, unit.Scheme, capability, req, within) {
			return true
		}
	}
	return false
}

// SortUnits orders units by id, then ascending version under each unit's
// scheme, then provenance.
func SortUnits(units []types.Unit) {
	cache := newVersionCache()
	sortUnitsWith(cache, units)
}

func sortUnitsWith(cache *versionCache, units []types.Unit) {
	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i], units[j]
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Version != b.Version {
			return cache.compareOrRaw(a.Scheme, a.Version, b.Version) < 0
		}
		return a.Provenance < b.Provenance
	})
}

// DedupeUnits collapses units sharing id and version. The copy with the
// lexicographically smallest provenance is kept so the outcome does not
// depend on input order. The result is sorted.
func DedupeUnits(units []types.Unit) []types.Unit {
	byKey := make(map[types.UnitKey]types.Unit, len(units))
	for _, unit := range units {
		existing, ok := byKey[unit.Key()]
		if !ok || preferUnit(unit, existing) {
			byKey[unit.Key()] = unit
		}
	}
	out := make([]types.Unit, 0, len(byKey))
	for _, unit := range byKey {
		out = append(out, unit)
	}
	SortUnits(out)
	return out
}

func preferUnit(candidate types.Unit, existing types.Unit) bool {
	if candidate.Synthetic != existing.Synthetic {
		return candidate.Synthetic
	}
	return candidate.Provenance < existing.Provenance
}
