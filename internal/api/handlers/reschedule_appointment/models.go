package reschedule_appointment

import (
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	rescheduleAppointment "github.com/carewell/CW-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	NewDate string  `json:"newDate"` // "2026-09-20"
	NewTime string  `json:"newTime"` // "11:00"
	Mode    *string `json:"mode,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID            int64   `json:"id"`
	DoctorID      int64   `json:"doctorId"`
	PatientID     int64   `json:"patientId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	Status        string  `json:"status"`
	Mode          string  `json:"mode"`
	PatientName   string  `json:"patientName"`
	DoctorName    string  `json:"doctorName"`
	Notes         *string `json:"notes,omitempty"`
	RescheduledBy *string `json:"rescheduledBy,omitempty"`
	RescheduledAt *string `json:"rescheduledAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(
	appointmentID int64,
	role domain.ActorRole,
	actorID int64,
) (*rescheduleAppointment.Request, error) {
	// Парсим дату
	newDate, err := time.Parse(domain.DateFormat, r.NewDate)
	if err != nil {
		return nil, err
	}

	// Парсим время
	newTime, err := types.NewTimeStringFromString(r.NewTime)
	if err != nil {
		return nil, err
	}

	var mode *domain.AppointmentMode
	if r.Mode != nil {
		m := domain.AppointmentMode(*r.Mode)
		mode = &m
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		NewDate:       newDate,
		NewTime:       newTime,
		Mode:          mode,
		Notes:         r.Notes,
		ActorRole:     role,
		ActorID:       actorID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *AppointmentResponse {
	response := &AppointmentResponse{
		ID:            resp.ID,
		DoctorID:      resp.DoctorID,
		PatientID:     resp.PatientID,
		Date:          resp.Date.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		Status:        string(resp.Status),
		Mode:          string(resp.Mode),
		PatientName:   resp.PatientName,
		DoctorName:    resp.DoctorName,
		Notes:         resp.Notes,
		RescheduledBy: resp.RescheduledBy,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.RescheduledAt != nil {
		rescheduledStr := resp.RescheduledAt.Format(time.RFC3339)
		response.RescheduledAt = &rescheduledStr
	}

	return response
}
