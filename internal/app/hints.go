package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"target-platform/internal/types"
)

// DefaultTargetFile is picked up when no target path is given.
const DefaultTargetFile = "target.yaml"

// discoverTarget looks in dir for target.yaml, or a single *.target.yaml
// when that is absent. It returns "" when nothing unambiguous is found.
func discoverTarget(dir string) string {
	candidate := filepath.Join(dir, DefaultTargetFile)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.target.yaml"))
	if err != nil || len(matches) != 1 {
		return ""
	}
	return matches[0]
}

// checkResolveHints returns hints for flags that repeat what the target
// definition already declares.
func checkResolveHints(flagEnvironment string, def types.TargetDefinition) []string {
	var hints []string
	flagEnvironment = strings.TrimSpace(flagEnvironment)
	if flagEnvironment != "" && flagEnvironment == strings.TrimSpace(def.ExecutionEnvironment) {
		hints = append(hints, fmt.Sprintf(
			"hint: --execution-environment is also set in the target definition (execution_environment: %s); you can omit the flag",
			flagEnvironment,
		))
	}
	seen := map[string]int{}
	for _, loc := range def.Locations {
		if loc.Name != "" {
			seen[loc.Name]++
		}
	}
	var duplicated []string
	for name, count := range seen {
		if count > 1 {
			duplicated = append(duplicated, name)
		}
	}
	sort.Strings(duplicated)
	for _, name := range duplicated {
		hints = append(hints, fmt.Sprintf("hint: location name %q is used more than once; diagnostics will be ambiguous", name))
	}
	return hints
}

// emitHints writes hint messages to stderr.
func emitHints(hints []string) {
	for _, h := range hints {
		fmt.Fprintln(os.Stderr, h)
	}
}
