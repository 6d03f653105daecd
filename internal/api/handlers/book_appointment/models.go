package book_appointment

import (
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	bookAppointment "github.com/carewell/CW-AppointmentService/internal/usecase/book_appointment"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	DoctorID  int64   `json:"doctorId"`
	Date      string  `json:"date"`      // "2026-09-15"
	StartTime string  `json:"startTime"` // "10:30"
	Mode      string  `json:"mode"`      // "in_person" или "online"
	Notes     *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64   `json:"id"`
	DoctorID    int64   `json:"doctorId"`
	PatientID   int64   `json:"patientId"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	Status      string  `json:"status"`
	Mode        string  `json:"mode"`
	PatientName string  `json:"patientName"`
	DoctorName  string  `json:"doctorName"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// PatientID берётся из контекста аутентификации, а не из тела запроса
func (r *BookAppointmentRequest) ToUseCaseRequest(patientID int64) (*bookAppointment.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &bookAppointment.Request{
		PatientID: patientID,
		DoctorID:  r.DoctorID,
		Date:      date,
		StartTime: startTime,
		Mode:      domain.AppointmentMode(r.Mode),
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		DoctorID:    resp.DoctorID,
		PatientID:   resp.PatientID,
		Date:        resp.Date.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		Status:      string(resp.Status),
		Mode:        string(resp.Mode),
		PatientName: resp.PatientName,
		DoctorName:  resp.DoctorName,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
