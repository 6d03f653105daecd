package book_appointment

import (
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// Request модель запроса на запись к врачу
type Request struct {
	PatientID int64                  // ID пациента
	DoctorID  int64                  // ID врача
	Date      time.Time              // Дата приёма (без времени)
	StartTime types.TimeString       // Слот из сетки врача (например, "09:30")
	Mode      domain.AppointmentMode // Формат приёма: очно или онлайн
	Notes     *string                // Заметки пациента (опционально)
}

// Response модель ответа с созданным приёмом
type Response struct {
	ID        int64                    // ID созданного приёма
	DoctorID  int64                    // ID врача
	PatientID int64                    // ID пациента
	Date      time.Time                // Дата приёма
	StartTime types.TimeString         // Время начала
	Status    domain.AppointmentStatus // Статус (всегда pending до подтверждения)
	Mode      domain.AppointmentMode   // Формат приёма

	// Денормализованные данные
	PatientName string  // Имя пациента
	DoctorName  string  // Имя врача
	Notes       *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

// fromDomain конвертирует domain.Appointment в Response
func fromDomain(appt *domain.Appointment) *Response {
	return &Response{
		ID:          appt.ID,
		DoctorID:    appt.DoctorID,
		PatientID:   appt.PatientID,
		Date:        appt.Date,
		StartTime:   appt.StartTime,
		Status:      appt.Status,
		Mode:        appt.Mode,
		PatientName: appt.PatientName,
		DoctorName:  appt.DoctorName,
		Notes:       appt.Notes,
		CreatedAt:   appt.CreatedAt,
		UpdatedAt:   appt.UpdatedAt,
	}
}
