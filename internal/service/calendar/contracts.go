package calendar

import (
	"context"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/internal/integrations/profileservice"
)

// CalendarRepository интерфейс репозитория календаря врача
type CalendarRepository interface {
	GetByDoctorID(ctx context.Context, doctorID int64) (*domain.DoctorCalendar, error)
	Replace(ctx context.Context, cal *domain.DoctorCalendar) error
}

// ProfileServiceClient интерфейс клиента для ProfileService
type ProfileServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*profileservice.Doctor, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
