package core

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"target-platform/internal/types"
)

type rangeKind int

const (
	rangeAny rangeKind = iota
	rangeInterval
	rangeExpression
)

// VersionRange is a parsed requirement range. Three forms are accepted:
// an interval such as "[1.0,2.0)", a bare version meaning "at least", and
// a scheme-specific constraint expression such as ">=1.2, <2".
type VersionRange struct {
	raw           string
	kind          rangeKind
	low           string
	high          string
	lowInclusive  bool
	highInclusive bool
}

// AnyVersion matches every version.
var AnyVersion = VersionRange{kind: rangeAny}

// ExactVersion matches only version.
func ExactVersion(version string) VersionRange {
	return VersionRange{
		raw:           fmt.Sprintf("[%s,%s]", version, version),
		kind:          rangeInterval,
		low:           version,
		high:          version,
		lowInclusive:  true,
		highInclusive: true,
	}
}

func (r VersionRange) String() string {
	if r.kind == rangeAny {
		return "any"
	}
	return r.raw
}

func (r VersionRange) IsAny() bool {
	return r.kind == rangeAny
}

// ParseVersionRange parses raw without reference to a version scheme.
// Endpoints and expressions are checked against the scheme of each
// candidate when matching.
func ParseVersionRange(raw string) (VersionRange, error) {
	value := strings.TrimSpace(raw)
	if value == "" || value == "0.0.0" || value == "*" {
		return AnyVersion, nil
	}
	if strings.HasPrefix(value, "[") || strings.HasPrefix(value, "(") {
		return parseInterval(value)
	}
	if isBareVersion(value) {
		return VersionRange{raw: value, kind: rangeInterval, low: value, lowInclusive: true}, nil
	}
	if !expressionParses(value) {
		return VersionRange{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version range %q", raw))
	}
	return VersionRange{raw: value, kind: rangeExpression}, nil
}

func parseInterval(value string) (VersionRange, error) {
	invalid := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid version interval %q", value))
	if len(value) < 3 {
		return VersionRange{}, invalid
	}
	closing := value[len(value)-1]
	if closing != ']' && closing != ')' {
		return VersionRange{}, invalid
	}
	bounds := strings.Split(value[1:len(value)-1], ",")
	if len(bounds) != 2 {
		return VersionRange{}, invalid
	}
	low := strings.TrimSpace(bounds[0])
	high := strings.TrimSpace(bounds[1])
	if low == "" {
		return VersionRange{}, invalid
	}
	return VersionRange{
		raw:           value,
		kind:          rangeInterval,
		low:           low,
		high:          high,
		lowInclusive:  value[0] == '[',
		highInclusive: closing == ']',
	}, nil
}

func isBareVersion(value string) bool {
	return !strings.ContainsAny(value, "<>=!~^*, ")
}

func expressionParses(value string) bool {
	if _, err := semver.NewConstraint(value); err == nil {
		return true
	}
	if _, err := pep440.NewSpecifiers(value); err == nil {
		return true
	}
	_, err := parseDebianTerms(value)
	return err == nil
}

// Contains reports whether version, interpreted under scheme, lies within
// the range. Versions that do not parse under scheme never match.
func (r VersionRange) Contains(cache *versionCache, scheme types.VersionScheme, version string) bool {
	switch r.kind {
	case rangeAny:
		return true
	case rangeInterval:
		return r.intervalContains(cache, scheme, version)
	default:
		return r.expressionContains(cache, scheme, version)
	}
}

func (r VersionRange) intervalContains(cache *versionCache, scheme types.VersionScheme, version string) bool {
	low, err := cache.compare(scheme, version, r.low)
	if err != nil {
		return false
	}
	if low < 0 || (low == 0 && !r.lowInclusive) {
		return false
	}
	if r.high == "" {
		return true
	}
	high, err := cache.compare(scheme, version, r.high)
	if err != nil {
		return false
	}
	return high < 0 || (high == 0 && r.highInclusive)
}

func (r VersionRange) expressionContains(cache *versionCache, scheme types.VersionScheme, version string) bool {
	switch normalizeScheme(scheme) {
	case types.VersionSchemeOSGi:
		constraint, err := cache.semverConstraint(r.raw)
		if err != nil {
			return false
		}
		parsed, err := cache.osgiVersion(version)
		if err != nil {
			return false
		}
		return constraint.Check(parsed.base)
	case types.VersionSchemePEP440:
		spec, err := cache.pepSpec(r.raw)
		if err != nil {
			return false
		}
		parsed, err := cache.pepVersion(version)
		if err != nil {
			return false
		}
		return spec.Check(parsed)
	case types.VersionSchemeDebian:
		terms, err := parseDebianTerms(r.raw)
		if err != nil {
			return false
		}
		for _, term := range terms {
			result, err := cache.compare(types.VersionSchemeDebian, version, term.version)
			if err != nil || !term.accepts(result) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

type debianTerm struct {
	op      string
	version string
}

func (t debianTerm) accepts(result int) bool {
	switch t.op {
	case ">=":
		return result >= 0
	case "<=":
		return result <= 0
	case ">>", ">":
		return result > 0
	case "<<", "<":
		return result < 0
	case "=", "==":
		return result == 0
	case "!=":
		return result != 0
	default:
		return false
	}
}

var debianOps = []string{">=", "<=", ">>", "<<", "==", "!=", ">", "<", "="}

// parseDebianTerms accepts comma separated "op version" terms, the form
// used in Debian control file relations.
func parseDebianTerms(value string) ([]debianTerm, error) {
	var terms []debianTerm
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		matched := false
		for _, op := range debianOps {
			if !strings.HasPrefix(part, op) {
				continue
			}
			version := strings.TrimSpace(strings.TrimPrefix(part, op))
			if version == "" {
				break
			}
			terms = append(terms, debianTerm{op: op, version: version})
			matched = true
			break
		}
		if !matched {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid relation %q", part))
		}
	}
	return terms, nil
}

// ValidateVersion checks that version parses under scheme.
func ValidateVersion(scheme types.VersionScheme, version string) error {
	cache := newVersionCache()
	_, err := cache.compare(scheme, version, version)
	return err
}
