package resolve_availability

import (
	"context"
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/internal/integrations/profileservice"
)

// AppointmentRepository интерфейс репозитория приёмов (журнал бронирований)
type AppointmentRepository interface {
	// GetActiveByDoctorAndDate получает активные приёмы врача на конкретную дату
	GetActiveByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]*domain.Appointment, error)
}

// CalendarRepository интерфейс репозитория календаря врача
type CalendarRepository interface {
	GetByDoctorID(ctx context.Context, doctorID int64) (*domain.DoctorCalendar, error)
}

// ProfileServiceClient интерфейс клиента для ProfileService
type ProfileServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*profileservice.Doctor, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
