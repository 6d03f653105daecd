package book_appointment

import (
	"fmt"
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Mode != domain.ModeInPerson && req.Mode != domain.ModeOnline {
		return fmt.Errorf("%w: mode must be %q or %q", ErrInvalidInput, domain.ModeInPerson, domain.ModeOnline)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для записи.
// Сравниваются только календарные даты, без компонента времени -
// иначе сегодняшняя дата ошибочно считалась бы прошедшей.
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
