package watch_availability

import (
	"context"

	"github.com/carewell/CW-AppointmentService/internal/infra/watch"
	resolveAvailability "github.com/carewell/CW-AppointmentService/internal/usecase/resolve_availability"
)

type ResolveAvailabilityUseCase interface {
	Execute(ctx context.Context, req *resolveAvailability.Request) (*resolveAvailability.Response, error)
}

type AvailabilityHub interface {
	Subscribe(doctorID int64) (<-chan watch.Event, func())
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
