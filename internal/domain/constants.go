package domain

import "github.com/carewell/CW-AppointmentService/pkg/types"

// Default slot grid values
const (
	DefaultGridStart           = "09:00"
	DefaultGridEnd             = "18:00"
	DefaultSlotDurationMinutes = 30
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBlockReasonLength        = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы приёмов, занимающих слот
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы приёмов, освобождающих слот
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusCompleted,
}

// DefaultBookableSlots возвращает дефолтную слот-сетку 09:00-18:00 с шагом 30 минут.
// Используется для врачей без настроенной сетки.
func DefaultBookableSlots() []types.TimeString {
	slots := make([]types.TimeString, 0)

	current := types.TimeString(DefaultGridStart)
	end := types.TimeString(DefaultGridEnd)

	for current.IsBefore(end) {
		slots = append(slots, current)

		next, err := current.AddMinutes(DefaultSlotDurationMinutes)
		if err != nil {
			break
		}
		current = next
	}

	return slots
}
