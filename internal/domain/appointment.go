package domain

import (
	"time"

	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// AppointmentMode represents how the appointment is conducted
type AppointmentMode string

const (
	ModeInPerson AppointmentMode = "in_person"
	ModeOnline   AppointmentMode = "online"
)

// ActorRole identifies who performed an action on an appointment
type ActorRole string

const (
	RolePatient ActorRole = "patient"
	RoleDoctor  ActorRole = "doctor"
	RoleAdmin   ActorRole = "admin"
)

// Appointment represents a patient appointment with a doctor.
// Date carries the calendar day only; StartTime is the slot label
// from the doctor's bookable grid.
type Appointment struct {
	ID        int64
	DoctorID  int64
	PatientID int64

	Date      time.Time
	StartTime types.TimeString
	Status    AppointmentStatus
	Mode      AppointmentMode

	// Denormalized data for history views
	PatientName string
	DoctorName  string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	// Audit of the last reschedule, nil until the first one
	RescheduledBy *string
	RescheduledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot.
// Cancelled and completed appointments free the slot immediately.
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment can be moved to another slot
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// OccupiesSlot returns true if the appointment holds the given doctor/date/time slot
func (a *Appointment) OccupiesSlot(doctorID int64, date time.Time, slot types.TimeString) bool {
	return a.IsActive() &&
		a.DoctorID == doctorID &&
		SameDay(a.Date, date) &&
		a.StartTime.Equal(slot)
}

// DoctorAppointmentsFilter фильтр для выборки приёмов врача
type DoctorAppointmentsFilter struct {
	DoctorID        int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые и завершённые приёмы
}
