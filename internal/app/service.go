package app

import (
	"time"

	"github.com/google/uuid"

	"target-platform/internal/adapters"
	"target-platform/internal/ports"
)

type Service struct {
	TargetLoader ports.TargetDefinitionPort
	OutputReader ports.OutputReaderPort
	Clock        func() time.Time
	NewID        func() string
}

func NewService() Service {
	return Service{
		TargetLoader: adapters.NewTargetFileAdapter(),
		OutputReader: adapters.NewOutputReaderAdapter(),
		Clock:        time.Now,
		NewID:        uuid.NewString,
	}
}
