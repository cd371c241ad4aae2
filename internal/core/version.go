package core

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"target-platform/internal/types"
)

// osgiVersion is major.minor.micro plus an optional qualifier. The numeric
// part is held as a semver version; the qualifier sorts lexically after it.
type osgiVersion struct {
	base      *semver.Version
	qualifier string
}

func (v osgiVersion) compare(other osgiVersion) int {
	if c := v.base.Compare(other.base); c != 0 {
		return c
	}
	return strings.Compare(v.qualifier, other.qualifier)
}

func parseOSGiVersion(raw string) (osgiVersion, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = "0.0.0"
	}
	parts := strings.SplitN(value, ".", 4)
	qualifier := ""
	if len(parts) == 4 {
		qualifier = parts[3]
		parts = parts[:3]
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	base, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return osgiVersion{}, err
	}
	return osgiVersion{base: base, qualifier: qualifier}, nil
}

// versionCache memoizes parsed versions and ranges for every scheme. It is
// safe for concurrent use so an index can be shared read-only.
type versionCache struct {
	mu          sync.Mutex
	osgi        map[string]osgiVersion
	deb         map[string]debversion.Version
	pep         map[string]pep440.Version
	spec        map[string]pep440.Specifiers
	constraints map[string]*semver.Constraints
	ranges      map[string]VersionRange
}

func newVersionCache() *versionCache {
	return &versionCache{
		osgi:        map[string]osgiVersion{},
		deb:         map[string]debversion.Version{},
		pep:         map[string]pep440.Version{},
		spec:        map[string]pep440.Specifiers{},
		constraints: map[string]*semver.Constraints{},
		ranges:      map[string]VersionRange{},
	}
}

func (c *versionCache) osgiVersion(value string) (osgiVersion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if parsed, ok := c.osgi[value]; ok {
		return parsed, nil
	}
	parsed, err := parseOSGiVersion(value)
	if err != nil {
		return osgiVersion{}, err
	}
	c.osgi[value] = parsed
	return parsed, nil
}

func (c *versionCache) debVersion(value string) (debversion.Version, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

func (c *versionCache) pepVersion(value string) (pep440.Version, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

func (c *versionCache) pepSpec(value string) (pep440.Specifiers, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if parsed, ok := c.spec[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.NewSpecifiers(value)
	if err != nil {
		return pep440.Specifiers{}, err
	}
	c.spec[value] = parsed
	return parsed, nil
}

func (c *versionCache) semverConstraint(value string) (*semver.Constraints, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if parsed, ok := c.constraints[value]; ok {
		return parsed, nil
	}
	parsed, err := semver.NewConstraint(value)
	if err != nil {
		return nil, err
	}
	c.constraints[value] = parsed
	return parsed, nil
}

func (c *versionCache) versionRange(raw string) (VersionRange, error) {
	c.mu.Lock()
	if parsed, ok := c.ranges[raw]; ok {
		c.mu.Unlock()
		return parsed, nil
	}
	c.mu.Unlock()
	parsed, err := ParseVersionRange(raw)
	if err != nil {
		return VersionRange{}, err
	}
	c.mu.Lock()
	c.ranges[raw] = parsed
	c.mu.Unlock()
	return parsed, nil
}

// compare returns -1, 0 or 1 comparing a and b under scheme.
func (c *versionCache) compare(scheme types.VersionScheme, a string, b string) (int, error) {
	switch normalizeScheme(scheme) {
	case types.VersionSchemeDebian:
		v1, err := c.debVersion(a)
		if err != nil {
			return 0, invalidVersion(scheme, a, err)
		}
		v2, err := c.debVersion(b)
		if err != nil {
			return 0, invalidVersion(scheme, b, err)
		}
		return v1.Compare(v2), nil
	case types.VersionSchemePEP440:
		v1, err := c.pepVersion(a)
		if err != nil {
			return 0, invalidVersion(scheme, a, err)
		}
		v2, err := c.pepVersion(b)
		if err != nil {
			return 0, invalidVersion(scheme, b, err)
		}
		return v1.Compare(v2), nil
	case types.VersionSchemeOSGi:
		v1, err := c.osgiVersion(a)
		if err != nil {
			return 0, invalidVersion(scheme, a, err)
		}
		v2, err := c.osgiVersion(b)
		if err != nil {
			return 0, invalidVersion(scheme, b, err)
		}
		return v1.compare(v2), nil
	default:
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported version scheme %s", scheme))
	}
}

// compareOrRaw compares a and b, falling back to string order when either
// side does not parse. Used only for sorting.
func (c *versionCache) compareOrRaw(scheme types.VersionScheme, a string, b string) int {
	result, err := c.compare(scheme, a, b)
	if err != nil {
		return strings.Compare(a, b)
	}
	return result
}

func normalizeScheme(scheme types.VersionScheme) types.VersionScheme {
	if strings.TrimSpace(string(scheme)) == "" {
		return types.VersionSchemeOSGi
	}
	return types.VersionScheme(strings.ToLower(strings.TrimSpace(string(scheme))))
}

// ValidScheme reports whether scheme names a supported version format.
func ValidScheme(scheme types.VersionScheme) bool {
	switch normalizeScheme(scheme) {
	case types.VersionSchemeOSGi, types.VersionSchemeDebian, types.VersionSchemePEP440:
		return true
	default:
		return false
	}
}

func invalidVersion(scheme types.VersionScheme, value string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid %s version %q", normalizeScheme(scheme), value)).
		WithCause(err)
}
