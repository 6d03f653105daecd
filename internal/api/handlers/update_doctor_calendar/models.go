package update_doctor_calendar

import (
	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/internal/service/calendar/models"
)

// UpdateCalendarRequest HTTP request model - полная замена календаря
type UpdateCalendarRequest struct {
	UnavailableDates  map[string]string                    `json:"unavailableDates,omitempty"`
	UnavailableRanges map[string][]models.TimeRangePayload `json:"unavailableRanges,omitempty"`
	BookableSlots     []string                             `json:"bookableSlots,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateCalendarRequest) ToServiceRequest(role domain.ActorRole, actorID int64) *models.UpdateCalendarRequest {
	return &models.UpdateCalendarRequest{
		ActorRole:         role,
		ActorID:           actorID,
		UnavailableDates:  r.UnavailableDates,
		UnavailableRanges: r.UnavailableRanges,
		BookableSlots:     r.BookableSlots,
	}
}
