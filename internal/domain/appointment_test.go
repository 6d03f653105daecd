package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointment_IsActive(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		active bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCancelled, false},
		{StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			appt := &Appointment{Status: tt.status}
			assert.Equal(t, tt.active, appt.IsActive())
			// Отмена и перенос разрешены ровно для активных приёмов
			assert.Equal(t, tt.active, appt.CanBeCancelled())
			assert.Equal(t, tt.active, appt.CanBeRescheduled())
		})
	}
}

func TestAppointment_OccupiesSlot(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	appt := &Appointment{
		ID:        1,
		DoctorID:  12,
		PatientID: 7,
		Date:      date,
		StartTime: "10:30",
		Status:    StatusConfirmed,
	}

	assert.True(t, appt.OccupiesSlot(12, date, "10:30"))

	// Другой врач, другая дата, другой слот
	assert.False(t, appt.OccupiesSlot(13, date, "10:30"))
	assert.False(t, appt.OccupiesSlot(12, date.AddDate(0, 0, 1), "10:30"))
	assert.False(t, appt.OccupiesSlot(12, date, "11:00"))

	// Отменённый приём немедленно освобождает слот
	appt.Status = StatusCancelled
	assert.False(t, appt.OccupiesSlot(12, date, "10:30"))
}
