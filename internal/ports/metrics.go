package ports

import "target-platform/internal/types"

// MetricsPort records resolution outcomes.
type MetricsPort interface {
	ObserveResolution(content types.ResolvedContent, err error)
	Flush() error
}
