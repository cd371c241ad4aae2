package ports

import "target-platform/internal/types"

type TargetDefinitionPort interface {
	LoadTarget(path string) (types.TargetDefinition, error)
}
