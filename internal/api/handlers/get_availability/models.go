package get_availability

import (
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	resolveAvailability "github.com/carewell/CW-AppointmentService/internal/usecase/resolve_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	DoctorID          int64             `json:"doctorId"`
	Date              string            `json:"date"`
	Available         []string          `json:"available"`
	Unavailable       []UnavailableSlot `json:"unavailable"`
	IsDateFullyBooked bool              `json:"isDateFullyBooked"`
	IsDateUnavailable bool              `json:"isDateUnavailable"`
}

// UnavailableSlot слот с причиной недоступности
type UnavailableSlot struct {
	Time   string `json:"time"`
	Reason string `json:"reason"` // past_date, doctor_unavailable, blocked_by_doctor, already_booked
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(doctorID int64, dateStr string, excludeAppointmentID *int64) (*resolveAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &resolveAvailability.Request{
		DoctorID:             doctorID,
		Date:                 date,
		ExcludeAppointmentID: excludeAppointmentID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveAvailability.Response) *AvailabilityResponse {
	result := resp.Result

	available := make([]string, len(result.Available))
	for i, slot := range result.Available {
		available[i] = slot.String()
	}

	unavailable := make([]UnavailableSlot, len(result.Unavailable))
	for i, slot := range result.Unavailable {
		unavailable[i] = UnavailableSlot{
			Time:   slot.Slot.String(),
			Reason: string(slot.Reason),
		}
	}

	return &AvailabilityResponse{
		DoctorID:          result.DoctorID,
		Date:              result.Date.Format(domain.DateFormat),
		Available:         available,
		Unavailable:       unavailable,
		IsDateFullyBooked: result.IsDateFullyBooked,
		IsDateUnavailable: result.IsDateUnavailable,
	}
}
