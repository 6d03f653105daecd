package models

import (
	"errors"
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену приёма
type CancelAppointmentRequest struct {
	ActorRole          domain.ActorRole `json:"actorRole"`
	ActorID            int64            `json:"actorId"`
	CancellationReason string           `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса приёма
type UpdateStatusRequest struct {
	ActorRole domain.ActorRole `json:"actorRole"`
	ActorID   int64            `json:"actorId"`
	Status    string           `json:"status"`
}

// GetPatientAppointmentsRequest запрос на историю приёмов пациента
type GetPatientAppointmentsRequest struct {
	PatientID int64            `json:"patientId"`
	Status    *string          `json:"status,omitempty"`
	ActorRole domain.ActorRole `json:"actorRole"`
	ActorID   int64            `json:"actorId"`
}

// GetDoctorAppointmentsRequest запрос на расписание врача
type GetDoctorAppointmentsRequest struct {
	DoctorID        int64            `json:"doctorId"`
	StartDate       *time.Time       `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time       `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string          `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool             `json:"includeInactive,omitempty"` // Включить отменённые и завершённые приёмы
	ActorRole       domain.ActorRole `json:"actorRole"`
	ActorID         int64            `json:"actorId"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetDoctorAppointmentsRequest) ToDomainFilter() (domain.DoctorAppointmentsFilter, error) {
	filter := domain.DoctorAppointmentsFilter{
		DoctorID:        r.DoctorID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными приёма
type AppointmentResponse struct {
	ID        int64  `json:"id"`
	DoctorID  int64  `json:"doctorId"`
	PatientID int64  `json:"patientId"`
	Date      string `json:"date"`      // "2026-09-15"
	StartTime string `json:"startTime"` // "10:30"
	Status    string `json:"status"`
	Mode      string `json:"mode"`

	// Денормализованные данные
	PatientName string  `json:"patientName"`
	DoctorName  string  `json:"doctorName"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	RescheduledBy *string `json:"rescheduledBy,omitempty"` // "patient:17"
	RescheduledAt *string `json:"rescheduledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком приёмов
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		DoctorID:           a.DoctorID,
		PatientID:          a.PatientID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		Status:             string(a.Status),
		Mode:               string(a.Mode),
		PatientName:        a.PatientName,
		DoctorName:         a.DoctorName,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		RescheduledBy:      a.RescheduledBy,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	// Конвертируем временные метки в строки ISO 8601
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}
	if a.RescheduledAt != nil {
		rescheduledStr := a.RescheduledAt.Format(time.RFC3339)
		resp.RescheduledAt = &rescheduledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	if appointments == nil {
		return &AppointmentListResponse{
			Appointments: []AppointmentResponse{},
		}
	}

	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, len(appointments)),
	}

	for i, appointment := range appointments {
		if apptResp := FromDomainAppointment(appointment); apptResp != nil {
			resp.Appointments[i] = *apptResp
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	validStatuses := []domain.AppointmentStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCancelled,
		domain.StatusCompleted,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
