package ports

import "target-platform/internal/types"

type OutputPort interface {
	WriteResolvedContent(content types.ResolvedContent) error
	WriteUnitLock(entries []types.UnitLockEntry) error
	WriteResolutionReport(diagnostics []types.LocationDiagnostic) error
}
