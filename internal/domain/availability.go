package domain

import (
	"time"

	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// SlotReason explains why a slot cannot be booked
type SlotReason string

const (
	ReasonPastDate          SlotReason = "past_date"
	ReasonDoctorUnavailable SlotReason = "doctor_unavailable"
	ReasonBlockedByDoctor   SlotReason = "blocked_by_doctor"
	ReasonAlreadyBooked     SlotReason = "already_booked"
)

// UnavailableSlot is a slot that cannot be booked, with the reason
type UnavailableSlot struct {
	Slot   types.TimeString
	Reason SlotReason
}

// AvailabilityResult is the derived partition of a doctor's slot grid
// for one date. It is computed fresh on every query and never persisted:
// the booking ledger can change between requests.
type AvailabilityResult struct {
	DoctorID int64
	Date     time.Time

	Available   []types.TimeString
	Unavailable []UnavailableSlot

	// IsDateFullyBooked is true only when patients filled every slot,
	// as opposed to the doctor blocking the day
	IsDateFullyBooked bool

	// IsDateUnavailable is true for past dates and doctor-blocked dates
	IsDateUnavailable bool
}

// IsSlotAvailable returns true if the slot is in the available set
func (r *AvailabilityResult) IsSlotAvailable(slot types.TimeString) bool {
	for _, s := range r.Available {
		if s.Equal(slot) {
			return true
		}
	}
	return false
}
