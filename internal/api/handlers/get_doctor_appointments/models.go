package get_doctor_appointments

import (
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров
func ToServiceRequest(
	doctorID int64,
	role domain.ActorRole,
	actorID int64,
	startDateStr, endDateStr, statusStr string,
	includeInactive bool,
) (*models.GetDoctorAppointmentsRequest, error) {
	req := &models.GetDoctorAppointmentsRequest{
		DoctorID:        doctorID,
		IncludeInactive: includeInactive,
		ActorRole:       role,
		ActorID:         actorID,
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	return req, nil
}
