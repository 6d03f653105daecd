package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate is required", ErrInvalidInput)
	}

	if req.NewTime.IsZero() {
		return fmt.Errorf("%w: newTime is required", ErrInvalidInput)
	}

	if err := req.NewTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid newTime format: %v", ErrInvalidInput, err)
	}

	if req.Mode != nil && *req.Mode != domain.ModeInPerson && *req.Mode != domain.ModeOnline {
		return fmt.Errorf("%w: mode must be %q or %q", ErrInvalidInput, domain.ModeInPerson, domain.ModeOnline)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	switch req.ActorRole {
	case domain.RolePatient, domain.RoleDoctor, domain.RoleAdmin:
	default:
		return fmt.Errorf("%w: unknown actor role %q", ErrInvalidInput, req.ActorRole)
	}

	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	return nil
}

// validateAccess проверяет право актора переносить приём:
// пациент - только свой приём, врач - только приёмы к себе, админ - любой
func validateAccess(appt *domain.Appointment, role domain.ActorRole, actorID int64) error {
	switch role {
	case domain.RolePatient:
		if appt.PatientID != actorID {
			return ErrAccessDenied
		}
	case domain.RoleDoctor:
		if appt.DoctorID != actorID {
			return ErrAccessDenied
		}
	case domain.RoleAdmin:
		// полный доступ
	default:
		return ErrAccessDenied
	}
	return nil
}

// validateDate проверяет, что новая дата подходит для переноса.
// Сравниваются только календарные даты, без компонента времени
func validateDate(date time.Time, now time.Time, cal *domain.DoctorCalendar) error {
	if domain.IsDateInPast(date, now) {
		return ErrInvalidDate
	}

	if cal.IsDateUnavailable(date) {
		return ErrDateUnavailable
	}

	return nil
}

// validateSlotInGrid проверяет, что время входит в слот-сетку врача
func validateSlotInGrid(slot types.TimeString, cal *domain.DoctorCalendar) error {
	for _, candidate := range cal.CandidateSlots() {
		if candidate.Equal(slot) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not in the doctor's slot grid", ErrInvalidTimeSlot, slot)
}
