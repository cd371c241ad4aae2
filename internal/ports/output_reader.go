package ports

import "target-platform/internal/types"

type OutputReaderPort interface {
	ReadResolvedContent(path string) (types.ResolvedContent, error)
	ReadUnitLock(path string) ([]types.UnitLockEntry, error)
	ReadResolutionReport(path string) ([]types.LocationDiagnostic, error)
}
