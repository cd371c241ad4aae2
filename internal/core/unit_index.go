package core

import (
	"sort"

	"target-platform/internal/types"
)

// UnitIndex is the queryable union of one or more repositories. It is
// read-only once built and safe to share between goroutines.
type UnitIndex struct {
	units      []types.Unit
	byKey      map[types.UnitKey]int
	byName     map[string][]int
	providers  map[capabilityKey][]int
	provenance map[types.UnitKey][]string
	cache      *versionCache
}

func NewUnitIndex() *UnitIndex {
	return &UnitIndex{
		byKey:      map[types.UnitKey]int{},
		byName:     map[string][]int{},
		providers:  map[capabilityKey][]int{},
		provenance: map[types.UnitKey][]string{},
		cache:      newVersionCache(),
	}
}

// BuildUnitIndex indexes units in order. The first unit seen for an
// identity+version wins.
func BuildUnitIndex(units []types.Unit) *UnitIndex {
	index := NewUnitIndex()
	for _, unit := range units {
		index.add(unit)
	}
	return index
}

func (i *UnitIndex) add(unit types.Unit) bool {
	key := unit.Key()
	if unit.Provenance != "" {
		i.provenance[key] = appendUnique(i.provenance[key], unit.Provenance)
	}
	if _, exists := i.byKey[key]; exists {
		return false
	}
	position := len(i.units)
	i.units = append(i.units, unit)
	i.byKey[key] = position
	i.byName[unit.ID] = append(i.byName[unit.ID], position)
	seen := map[capabilityKey]bool{}
	for _, capability := range providedCapabilities(unit) {
		ck := keyOfCapability(capability)
		if seen[ck] {
			continue
		}
		seen[ck] = true
		i.providers[ck] = append(i.providers[ck], position)
	}
	return true
}

func (i *UnitIndex) Len() int {
	return len(i.units)
}

// Units returns every indexed unit, sorted.
func (i *UnitIndex) Units() []types.Unit {
	out := append([]types.Unit(nil), i.units...)
	sortUnitsWith(i.cache, out)
	return out
}

// Find returns every unit providing a capability that matches req, ordered
// by id and then by descending version. An unparseable range matches
// nothing.
func (i *UnitIndex) Find(req types.Requirement) []types.Unit {
	within, err := i.cache.versionRange(req.Range)
	if err != nil {
		return nil
	}
	var out []types.Unit
	for _, position := range i.providers[keyOfRequirement(req)] {
		unit := i.units[position]
		for _, capability := range providedCapabilities(unit) {
			if capabilityMatches(i.cache, unit.Scheme, capability, req, within) {
				out = append(out, unit)
				break
			}
		}
	}
	i.sortCandidates(out)
	return out
}

// Get returns the units named name whose version lies in versionRange,
// highest version first.
func (i *UnitIndex) Get(name string, versionRange string) []types.Unit {
	within, err := i.cache.versionRange(versionRange)
	if err != nil {
		return nil
	}
	var out []types.Unit
	for _, position := range i.byName[name] {
		unit := i.units[position]
		if within.Contains(i.cache, unit.Scheme, unit.Version) {
			out = append(out, unit)
		}
	}
	i.sortCandidates(out)
	return out
}

// Lookup returns the unit with the exact identity+version.
func (i *UnitIndex) Lookup(key types.UnitKey) (types.Unit, bool) {
	position, ok := i.byKey[key]
	if !ok {
		return types.Unit{}, false
	}
	return i.units[position], true
}

// Provenance lists every repository that offered key, in load order.
func (i *UnitIndex) Provenance(key types.UnitKey) []string {
	return append([]string(nil), i.provenance[key]...)
}

func (i *UnitIndex) sortCandidates(units []types.Unit) {
	sort.SliceStable(units, func(a, b int) bool {
		if units[a].ID != units[b].ID {
			return units[a].ID < units[b].ID
		}
		return i.cache.compareOrRaw(units[a].Scheme, units[a].Version, units[b].Version) > 0
	})
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
