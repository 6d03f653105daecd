package get_appointment

import (
	"context"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, id int64, role domain.ActorRole, actorID int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
