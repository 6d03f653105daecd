package reschedule_appointment

import (
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// Request модель запроса на перенос приёма
type Request struct {
	AppointmentID int64            // ID переносимого приёма
	NewDate       time.Time        // Новая дата (без времени)
	NewTime       types.TimeString // Новый слот из сетки врача

	Mode  *domain.AppointmentMode // Новый формат приёма (nil - без изменения)
	Notes *string                 // Новые заметки (nil - без изменения)

	ActorRole domain.ActorRole // Кто переносит: patient, doctor или admin
	ActorID   int64            // ID актора
}

// Response модель ответа с перенесённым приёмом
type Response struct {
	ID        int64                    // ID приёма
	DoctorID  int64                    // ID врача
	PatientID int64                    // ID пациента
	Date      time.Time                // Новая дата
	StartTime types.TimeString         // Новое время начала
	Status    domain.AppointmentStatus // Статус (после переноса всегда pending)
	Mode      domain.AppointmentMode   // Формат приёма

	PatientName string  // Имя пациента
	DoctorName  string  // Имя врача
	Notes       *string // Заметки

	RescheduledBy *string    // Актор последнего переноса ("patient:17")
	RescheduledAt *time.Time // Время последнего переноса

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

// fromDomain конвертирует domain.Appointment в Response
func fromDomain(appt *domain.Appointment) *Response {
	return &Response{
		ID:            appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		Date:          appt.Date,
		StartTime:     appt.StartTime,
		Status:        appt.Status,
		Mode:          appt.Mode,
		PatientName:   appt.PatientName,
		DoctorName:    appt.DoctorName,
		Notes:         appt.Notes,
		RescheduledBy: appt.RescheduledBy,
		RescheduledAt: appt.RescheduledAt,
		CreatedAt:     appt.CreatedAt,
		UpdatedAt:     appt.UpdatedAt,
	}
}
