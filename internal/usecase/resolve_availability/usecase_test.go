package resolve_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/internal/integrations/profileservice"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// Моки контрактов use case

type mockAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (m *mockAppointmentRepo) GetActiveByDoctorAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return m.appointments, m.err
}

type mockCalendarRepo struct {
	calendar *domain.DoctorCalendar
	err      error
}

func (m *mockCalendarRepo) GetByDoctorID(_ context.Context, _ int64) (*domain.DoctorCalendar, error) {
	return m.calendar, m.err
}

type mockProfileClient struct {
	doctor *profileservice.Doctor
	err    error
}

func (m *mockProfileClient) GetDoctor(_ context.Context, _ int64) (*profileservice.Doctor, error) {
	return m.doctor, m.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	profileClient ProfileServiceClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(appointmentRepo, calendarRepo, profileClient, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func testDoctor() *profileservice.Doctor {
	return &profileservice.Doctor{ID: doctorID, FullName: "Иванов Иван Иванович", IsActive: true}
}

func TestUseCase_Execute(t *testing.T) {
	cal := smallGridCalendar()
	ledger := []*domain.Appointment{activeAppointment(1, "09:30")}

	uc := newTestUseCase(
		&mockAppointmentRepo{appointments: ledger},
		&mockCalendarRepo{calendar: cal},
		&mockProfileClient{doctor: testDoctor()},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: doctorID, Date: testDate})
	require.NoError(t, err)

	result := resp.Result
	assert.Equal(t, doctorID, result.DoctorID)
	assert.ElementsMatch(t, []types.TimeString{"09:00", "10:00", "10:30"}, result.Available)
	assert.False(t, result.IsSlotAvailable("09:30"))
}

func TestUseCase_Execute_DoctorNotFound(t *testing.T) {
	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockCalendarRepo{calendar: smallGridCalendar()},
		&mockProfileClient{err: profileservice.ErrDoctorNotFound},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{DoctorID: doctorID, Date: testDate})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockCalendarRepo{},
		&mockProfileClient{doctor: testDoctor()},
		testNow,
	)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero doctor", req: &Request{Date: testDate}},
		{name: "negative doctor", req: &Request{DoctorID: -5, Date: testDate}},
		{name: "zero date", req: &Request{DoctorID: doctorID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUseCase_Execute_RepoError(t *testing.T) {
	uc := newTestUseCase(
		&mockAppointmentRepo{err: assert.AnError},
		&mockCalendarRepo{calendar: smallGridCalendar()},
		&mockProfileClient{doctor: testDoctor()},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{DoctorID: doctorID, Date: testDate})
	assert.ErrorIs(t, err, ErrInternal)
}
