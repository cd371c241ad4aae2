package ports

import "target-platform/internal/types"

// SBOMPort writes a software bill of materials for resolved content.
type SBOMPort interface {
	WriteSBOM(content types.ResolvedContent) error
}
