package types

import "fmt"

// Capability is a namespaced, optionally versioned fact provided by a unit.
// An empty Version matches any version range.
type Capability struct {
	Namespace string `yaml:"namespace"`
	Name      string `yaml:"name"`
	Version   string `yaml:"version,omitempty"`
}

func (c Capability) String() string {
	if c.Version == "" {
		return fmt.Sprintf("%s:%s", c.Namespace, c.Name)
	}
	return fmt.Sprintf("%s:%s@%s", c.Namespace, c.Name, c.Version)
}

// Requirement is a need for a capability within a version range.
//
// Filter is an optional boolean expression over the target environment
// (os, ws, arch, ...). A requirement whose filter matches none of the
// target environments does not apply.
type Requirement struct {
	Namespace string `yaml:"namespace"`
	Name      string `yaml:"name"`
	Range     string `yaml:"range,omitempty"`
	Optional  bool   `yaml:"optional,omitempty"`
	Filter    string `yaml:"filter,omitempty"`
}

func (r Requirement) String() string {
	out := fmt.Sprintf("%s:%s", r.Namespace, r.Name)
	if r.Range != "" {
		out += " " + r.Range
	}
	if r.Optional {
		out += " (optional)"
	}
	return out
}

// UnitKey is the identity+version dedup key of a unit.
type UnitKey struct {
	ID      string
	Version string
}

func (k UnitKey) String() string {
	return fmt.Sprintf("%s/%s", k.ID, k.Version)
}

// Unit is a named, versioned installable artifact. Units are treated as
// immutable once loaded from a repository.
type Unit struct {
	ID         string        `yaml:"id"`
	Version    string        `yaml:"version"`
	Scheme     VersionScheme `yaml:"scheme,omitempty"`
	Filter     string        `yaml:"filter,omitempty"`
	Provides   []Capability  `yaml:"provides,omitempty"`
	Requires   []Requirement `yaml:"requires,omitempty"`
	Provenance string        `yaml:"provenance,omitempty"`
	Synthetic  bool          `yaml:"synthetic,omitempty"`
}

func (u Unit) Key() UnitKey {
	return UnitKey{ID: u.ID, Version: u.Version}
}

// Identity is the capability every unit implicitly provides.
func (u Unit) Identity() Capability {
	return Capability{Namespace: NamespaceUnit, Name: u.ID, Version: u.Version}
}

// ProvidesNamespace reports whether the unit provides any capability in ns.
func (u Unit) ProvidesNamespace(ns string) bool {
	for _, capability := range u.Provides {
		if capability.Namespace == ns {
			return true
		}
	}
	return false
}

// UnitPredicate selects units. Used for the execution environment
// exclusion rule.
type UnitPredicate func(Unit) bool
