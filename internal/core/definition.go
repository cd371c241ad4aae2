package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"

	"target-platform/internal/types"
)

// ValidateDefinition checks a target definition before any repository is
// touched.
func ValidateDefinition(def types.TargetDefinition) error {
	if len(def.Locations) == 0 {
		return invalidDefinition("target definition has no locations", nil)
	}
	for i, loc := range def.Locations {
		if err := validateLocation(loc); err != nil {
			return locationFailed(i, loc, err)
		}
	}
	return nil
}

func validateLocation(loc types.Location) error {
	switch loc.IncludeMode {
	case types.IncludeModePlanner, types.IncludeModeSlicer:
	default:
		return invalidDefinition(fmt.Sprintf("unknown include mode %q", loc.IncludeMode), nil)
	}
	if len(loc.Repositories) == 0 {
		return invalidDefinition("location has no repositories", nil)
	}
	for _, ref := range loc.Repositories {
		if strings.TrimSpace(ref.Location) == "" {
			return invalidDefinition("repository location must be set", nil)
		}
	}
	if len(loc.Units) == 0 && len(loc.Requirements) == 0 {
		return invalidDefinition("location has no seed units or requirements", nil)
	}
	for _, seed := range loc.Units {
		if strings.TrimSpace(seed.ID) == "" {
			return invalidDefinition("seed unit id must be set", nil)
		}
	}
	for _, req := range loc.Requirements {
		if strings.TrimSpace(req.Namespace) == "" || strings.TrimSpace(req.Name) == "" {
			return invalidDefinition(fmt.Sprintf("seed requirement %q needs a namespace and a name", req), nil)
		}
		if _, err := ParseVersionRange(req.Range); err != nil {
			return invalidDefinition(fmt.Sprintf("seed requirement %s", req), err)
		}
		if err := ValidateFilter(req.Filter); err != nil {
			return invalidDefinition(fmt.Sprintf("seed requirement %s", req), err)
		}
	}
	return nil
}

// SeedRequirements turns a validated location's seeds into requirements.
// A seed unit with a version pins exactly that version.
func SeedRequirements(ctx context.Context, loc types.Location) []types.Requirement {
	out := make([]types.Requirement, 0, len(loc.Units)+len(loc.Requirements))
	for _, seed := range loc.Units {
		req := types.Requirement{Namespace: types.NamespaceUnit, Name: seed.ID}
		version := strings.TrimSpace(seed.Version)
		if version != "" && version != "0.0.0" {
			req.Range = ExactVersion(version).String()
		}
		out = append(out, req)
	}
	out = append(out, loc.Requirements...)
	for _, req := range out {
		assert.NotEmpty(ctx, req.Namespace, "seed namespace must be set")
		assert.NotEmpty(ctx, req.Name, "seed name must be set")
	}
	return out
}
