package core

import (
	"context"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

type fakeRepository struct {
	name  string
	units []types.Unit
}

func (r fakeRepository) Name() string { return r.name }

func (r fakeRepository) ListUnits(ctx context.Context) ([]types.Unit, error) {
	return append([]types.Unit(nil), r.units...), nil
}

// fakeLoader serves repositories from memory, keyed by location.
type fakeLoader struct {
	mu      sync.Mutex
	repos   map[string][]types.Unit
	failing map[string]bool
	opened  map[string]int
}

func newFakeLoader(repos map[string][]types.Unit) *fakeLoader {
	return &fakeLoader{repos: repos, failing: map[string]bool{}, opened: map[string]int{}}
}

func (l *fakeLoader) Open(ctx context.Context, ref types.RepositoryRef) (ports.RepositoryPort, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opened[ref.Location]++
	if l.failing[ref.Location] {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("connection refused")
	}
	units, ok := l.repos[ref.Location]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no such repository " + ref.Location)
	}
	return fakeRepository{name: ref.Location, units: units}, nil
}

type staticProfiles []types.ExecutionEnvironmentProfile

func (p staticProfiles) Lookup(name string) (types.ExecutionEnvironmentProfile, bool) {
	for _, profile := range p {
		if profile.Name == name {
			return profile, true
		}
	}
	return types.ExecutionEnvironmentProfile{}, false
}

func (p staticProfiles) List() []types.ExecutionEnvironmentProfile {
	return p
}

func packages(names ...string) []types.Capability {
	out := make([]types.Capability, 0, len(names))
	for _, name := range names {
		out = append(out, types.Capability{Namespace: types.NamespacePackage, Name: name})
	}
	return out
}

func testProfiles() staticProfiles {
	return staticProfiles{
		{Name: "CDC-1.0/Foundation-1.0", Packages: packages("java.lang", "java.io", "javax.microedition.io")},
		{Name: "J2SE-1.4", Packages: packages("java.lang", "org.w3c.dom", "javax.xml.parsers")},
		{Name: "J2SE-1.5", Packages: packages("javax.xml.namespace")},
		{Name: "JavaSE-1.6", Packages: packages("javax.xml.stream")},
		{Name: "JavaSE-1.7", Packages: packages("java.nio.file")},
	}
}

func unit(id string, version string) types.Unit {
	return types.Unit{ID: id, Version: version}
}

func requiresPackage(u types.Unit, name string) types.Unit {
	u.Requires = append(u.Requires, types.Requirement{Namespace: types.NamespacePackage, Name: name})
	return u
}

func requiresUnit(u types.Unit, id string, versionRange string) types.Unit {
	u.Requires = append(u.Requires, types.Requirement{Namespace: types.NamespaceUnit, Name: id, Range: versionRange})
	return u
}

func providesPackage(u types.Unit, name string) types.Unit {
	u.Provides = append(u.Provides, types.Capability{Namespace: types.NamespacePackage, Name: name})
	return u
}

func jreMarker(u types.Unit) types.Unit {
	u.Provides = append(u.Provides, types.Capability{Namespace: types.NamespaceJRE, Name: u.ID})
	return u
}

// eeRepository mirrors a repository holding a client of org.w3c.dom, a
// real bundle providing it, and a fake JRE unit providing it as well.
func eeRepository() []types.Unit {
	return []types.Unit{
		requiresPackage(unit("dom-client", "0.0.1.SNAPSHOT"), "org.w3c.dom"),
		providesPackage(unit("javax.xml", "0.0.1.SNAPSHOT"), "org.w3c.dom"),
		providesPackage(providesPackage(jreMarker(unit("a.jre", "1.0.0")), "org.w3c.dom"), "java.lang"),
	}
}

// productRepository holds a product with hard requirements on a JRE unit
// and its configuration unit.
func productRepository() []types.Unit {
	sdk := requiresUnit(unit("sdk", "1.0.0"), "a.jre.javase", "[1.6.0,1.6.0]")
	sdk = requiresUnit(sdk, "config.a.jre.javase", "[1.6.0,1.6.0]")
	return []types.Unit{
		sdk,
		jreMarker(unit("a.jre.javase", "1.6.0")),
		jreMarker(unit("config.a.jre.javase", "1.6.0")),
	}
}

func location(mode types.IncludeMode, repo string, seeds ...types.SeedUnit) types.Location {
	return types.Location{
		Name:         repo,
		IncludeMode:  mode,
		Repositories: []types.RepositoryRef{{Location: repo}},
		Units:        seeds,
	}
}

func seed(id string, version string) types.SeedUnit {
	return types.SeedUnit{ID: id, Version: version}
}

func keysOf(units []types.Unit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.Key().String())
	}
	return out
}

func newTestResolver(loader ports.RepositoryLoaderPort, ee string) (*TargetResolver, error) {
	return NewTargetResolver(TargetResolverConfig{
		Loader:               loader,
		Profiles:             testProfiles(),
		ExecutionEnvironment: ee,
		Parallelism:          2,
	})
}
