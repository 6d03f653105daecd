package update_doctor_calendar

import (
	"context"

	"github.com/carewell/CW-AppointmentService/internal/service/calendar/models"
)

type CalendarService interface {
	Replace(ctx context.Context, doctorID int64, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
