package ports

import (
	"context"

	"target-platform/internal/types"
)

// RepositoryPort exposes the units of one loaded metadata repository.
type RepositoryPort interface {
	Name() string
	ListUnits(ctx context.Context) ([]types.Unit, error)
}

// RepositoryLoaderPort opens a repository reference. Transport-level
// retries, if any, happen behind this port.
type RepositoryLoaderPort interface {
	Open(ctx context.Context, ref types.RepositoryRef) (RepositoryPort, error)
}
