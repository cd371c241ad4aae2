package ports

import "target-platform/internal/types"

// ProfileTablePort is the known execution environment profile table.
type ProfileTablePort interface {
	Lookup(name string) (types.ExecutionEnvironmentProfile, bool)
	List() []types.ExecutionEnvironmentProfile
}
