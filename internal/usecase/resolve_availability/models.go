package resolve_availability

import (
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
)

// Request модель запроса на расчёт доступности слотов
type Request struct {
	DoctorID int64     // ID врача
	Date     time.Time // Дата (без времени)

	// ExcludeAppointmentID ID переносимого приёма: его собственный слот
	// не считается занятым, чтобы текущий выбор оставался доступным в UI переноса
	ExcludeAppointmentID *int64
}

// Response модель ответа с разбиением слот-сетки на доступные и занятые
type Response struct {
	Result *domain.AvailabilityResult
}
