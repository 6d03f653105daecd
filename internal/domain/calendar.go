package domain

import (
	"time"

	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// TimeRange is a half-open [Start, End) interval blocked within an open day
type TimeRange struct {
	Start  types.TimeString
	End    types.TimeString
	Reason string
}

// Contains returns true if the slot start falls inside the range
func (r TimeRange) Contains(slot types.TimeString) bool {
	return !slot.IsBefore(r.Start) && slot.IsBefore(r.End)
}

// DoctorCalendar is the doctor's declared working calendar: whole days off,
// blocked ranges within otherwise-open days, and the bookable slot grid.
// It is written by the doctor-side UI and read-only to the scheduling core.
type DoctorCalendar struct {
	DoctorID int64

	// UnavailableDates keyed by DateFormat-formatted day
	UnavailableDates map[string]string // date -> reason

	// UnavailableRanges keyed by DateFormat-formatted day
	UnavailableRanges map[string][]TimeRange

	// BookableSlots is the ordered slot grid; empty means the default grid
	BookableSlots []types.TimeString
}

// NewDoctorCalendar creates an empty (fully open) calendar for a doctor
func NewDoctorCalendar(doctorID int64) *DoctorCalendar {
	return &DoctorCalendar{
		DoctorID:          doctorID,
		UnavailableDates:  make(map[string]string),
		UnavailableRanges: make(map[string][]TimeRange),
	}
}

// IsDateUnavailable returns true if the whole date is blocked by the doctor
func (c *DoctorCalendar) IsDateUnavailable(date time.Time) bool {
	if c == nil || c.UnavailableDates == nil {
		return false
	}
	_, ok := c.UnavailableDates[DateKey(date)]
	return ok
}

// BlockedRanges returns the blocked time ranges for the date, empty if none
func (c *DoctorCalendar) BlockedRanges(date time.Time) []TimeRange {
	if c == nil || c.UnavailableRanges == nil {
		return nil
	}
	return c.UnavailableRanges[DateKey(date)]
}

// CandidateSlots returns the bookable slot grid. Dates only remove slots,
// never add them, so the grid does not vary by date.
// A doctor without a configured grid gets the default one.
func (c *DoctorCalendar) CandidateSlots() []types.TimeString {
	if c == nil || len(c.BookableSlots) == 0 {
		return DefaultBookableSlots()
	}
	return c.BookableSlots
}

// DateKey formats a date as the canonical day-granularity key
func DateKey(date time.Time) string {
	return date.Format(DateFormat)
}

// SameDay returns true if both timestamps fall on the same calendar day
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly truncates a timestamp to midnight, keeping its location.
// All day comparisons go through this to avoid time-of-day leakage.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsDateInPast returns true if date is strictly before today.
// Calendar components are compared, not instants: request dates arrive
// parsed in UTC while now is server-local, and comparing midnights of
// different locations would shift the day near the boundary.
func IsDateInPast(date, now time.Time) bool {
	return DateKey(date) < DateKey(now)
}
