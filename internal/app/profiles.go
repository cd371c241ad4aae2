package app

import (
	"sort"
	"strings"

	"target-platform/internal/adapters"
	"target-platform/internal/core"
)

// Profiles lists the known execution environments. With a name it also
// reports what that environment satisfies, including auto-derived ones.
func (s Service) Profiles(req ProfilesRequest) (ProfilesResult, error) {
	table, err := adapters.NewProfileTableAdapter(req.ProfilesFile)
	if err != nil {
		return ProfilesResult{}, err
	}
	var result ProfilesResult
	for _, profile := range table.List() {
		result.Profiles = append(result.Profiles, ProfileSummary{Name: profile.Name, Packages: len(profile.Packages)})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return result, nil
	}
	hints, err := core.EEHintsResolver{Profiles: table, Prefix: strings.TrimSpace(req.JREPrefix)}.Hints(name)
	if err != nil {
		return ProfilesResult{}, err
	}
	detail := &ProfileDetail{Name: hints.Name, Auto: hints.Auto}
	for _, capability := range hints.Satisfied {
		detail.Satisfied = append(detail.Satisfied, capability.String())
	}
	sort.Strings(detail.Satisfied)
	for _, unit := range hints.SyntheticUnits {
		detail.SyntheticUnits = append(detail.SyntheticUnits, unit.Key().String())
	}
	result.Detail = detail
	return result, nil
}
