package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	appointmentRepo "github.com/carewell/CW-AppointmentService/internal/infra/storage/appointment"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

const (
	testDoctorID  = int64(12)
	testPatientID = int64(17)
)

var (
	testOldDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	testNewDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	testNow     = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
)

// Моки контрактов use case

type mockAppointmentRepo struct {
	appointment *domain.Appointment
	active      []*domain.Appointment

	rescheduled *domain.Appointment

	getErr        error
	rescheduleErr error
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	return m.appointment, m.getErr
}

func (m *mockAppointmentRepo) GetActiveByDoctorAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return m.active, nil
}

func (m *mockAppointmentRepo) Reschedule(
	_ context.Context,
	id int64,
	date time.Time,
	startTime types.TimeString,
	mode domain.AppointmentMode,
	notes *string,
	rescheduledBy string,
) (*domain.Appointment, error) {
	if m.rescheduleErr != nil {
		return nil, m.rescheduleErr
	}

	// Повторяем эффект UPDATE: новый слот, сброс статуса, метка переноса
	updated := *m.appointment
	updated.ID = id
	updated.Date = date
	updated.StartTime = startTime
	updated.Mode = mode
	updated.Notes = notes
	updated.Status = domain.StatusPending
	updated.RescheduledBy = &rescheduledBy
	rescheduledAt := testNow
	updated.RescheduledAt = &rescheduledAt
	updated.UpdatedAt = testNow

	m.rescheduled = &updated
	return &updated, nil
}

type mockCalendarRepo struct {
	calendar *domain.DoctorCalendar
	err      error
}

func (m *mockCalendarRepo) GetByDoctorID(_ context.Context, _ int64) (*domain.DoctorCalendar, error) {
	return m.calendar, m.err
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:          1,
		DoctorID:    testDoctorID,
		PatientID:   testPatientID,
		Date:        testOldDate,
		StartTime:   "09:30",
		Status:      domain.StatusConfirmed,
		Mode:        domain.ModeInPerson,
		PatientName: "Сидорова Анна Павловна",
		DoctorName:  "Петров Пётр Петрович",
	}
}

func validRequest() *Request {
	return &Request{
		AppointmentID: 1,
		NewDate:       testNewDate,
		NewTime:       "10:00",
		ActorRole:     domain.RolePatient,
		ActorID:       testPatientID,
	}
}

func newTestUseCase(repo *mockAppointmentRepo, calendarRepo *mockCalendarRepo) *UseCase {
	uc := NewUseCase(repo, calendarRepo, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func TestUseCase_Execute(t *testing.T) {
	repo := &mockAppointmentRepo{appointment: confirmedAppointment()}
	calendarRepo := &mockCalendarRepo{calendar: domain.NewDoctorCalendar(testDoctorID)}
	uc := newTestUseCase(repo, calendarRepo)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, testNewDate, resp.Date)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	// После переноса приём ждёт повторного подтверждения врачом
	assert.Equal(t, domain.StatusPending, resp.Status)
	// Формат не передан - остаётся прежним
	assert.Equal(t, domain.ModeInPerson, resp.Mode)

	require.NotNil(t, resp.RescheduledBy)
	assert.Equal(t, "patient:17", *resp.RescheduledBy)
	assert.NotNil(t, resp.RescheduledAt)
}

func TestUseCase_Execute_SameSlot(t *testing.T) {
	// Слот 09:30 на старую дату занят самим переносимым приёмом:
	// перенос "на то же место" (например, со сменой формата) проходит
	appt := confirmedAppointment()
	repo := &mockAppointmentRepo{
		appointment: appt,
		active:      []*domain.Appointment{appt},
	}
	calendarRepo := &mockCalendarRepo{calendar: domain.NewDoctorCalendar(testDoctorID)}
	uc := newTestUseCase(repo, calendarRepo)

	mode := domain.ModeOnline
	req := validRequest()
	req.NewDate = testOldDate
	req.NewTime = "09:30"
	req.Mode = &mode

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeOnline, resp.Mode)
	assert.Equal(t, types.TimeString("09:30"), resp.StartTime)
}

func TestUseCase_Execute_SlotTaken(t *testing.T) {
	repo := &mockAppointmentRepo{
		appointment: confirmedAppointment(),
		active: []*domain.Appointment{
			{
				ID: 99, DoctorID: testDoctorID, PatientID: 42,
				Date: testNewDate, StartTime: "10:00", Status: domain.StatusConfirmed,
			},
		},
	}
	calendarRepo := &mockCalendarRepo{calendar: domain.NewDoctorCalendar(testDoctorID)}
	uc := newTestUseCase(repo, calendarRepo)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, repo.rescheduled)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	repo := &mockAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound}
	calendarRepo := &mockCalendarRepo{calendar: domain.NewDoctorCalendar(testDoctorID)}
	uc := newTestUseCase(repo, calendarRepo)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUseCase_Execute_AccessDenied(t *testing.T) {
	calendarRepo := &mockCalendarRepo{calendar: domain.NewDoctorCalendar(testDoctorID)}

	tests := []struct {
		name  string
		role  domain.ActorRole
		actor int64
		want  error
	}{
		{name: "foreign patient", role: domain.RolePatient, actor: 999, want: ErrAccessDenied},
		{name: "foreign doctor", role: domain.RoleDoctor, actor: 999, want: ErrAccessDenied},
		{name: "own doctor", role: domain.RoleDoctor, actor: testDoctorID, want: nil},
		{name: "admin", role: domain.RoleAdmin, actor: 999, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAppointmentRepo{appointment: confirmedAppointment()}
			uc := newTestUseCase(repo, calendarRepo)

			req := validRequest()
			req.ActorRole = tt.role
			req.ActorID = tt.actor

			_, err := uc.Execute(context.Background(), req)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUseCase_Execute_CannotReschedule(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			appt := confirmedAppointment()
			appt.Status = status
			repo := &mockAppointmentRepo{appointment: appt}
			calendarRepo := &mockCalendarRepo{calendar: domain.NewDoctorCalendar(testDoctorID)}
			uc := newTestUseCase(repo, calendarRepo)

			_, err := uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrCannotReschedule)
		})
	}
}

func TestUseCase_Execute_DateUnavailable(t *testing.T) {
	cal := domain.NewDoctorCalendar(testDoctorID)
	cal.UnavailableDates[domain.DateKey(testNewDate)] = "отпуск"

	repo := &mockAppointmentRepo{appointment: confirmedAppointment()}
	uc := newTestUseCase(repo, &mockCalendarRepo{calendar: cal})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDateUnavailable)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	repo := &mockAppointmentRepo{appointment: confirmedAppointment()}
	calendarRepo := &mockCalendarRepo{calendar: domain.NewDoctorCalendar(testDoctorID)}
	uc := newTestUseCase(repo, calendarRepo)

	badMode := domain.AppointmentMode("telepathy")

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "zero appointment", mutate: func(r *Request) { r.AppointmentID = 0 }},
		{name: "zero date", mutate: func(r *Request) { r.NewDate = time.Time{} }},
		{name: "empty time", mutate: func(r *Request) { r.NewTime = "" }},
		{name: "malformed time", mutate: func(r *Request) { r.NewTime = "25:99" }},
		{name: "unknown mode", mutate: func(r *Request) { r.Mode = &badMode }},
		{name: "unknown role", mutate: func(r *Request) { r.ActorRole = "auditor" }},
		{name: "zero actor", mutate: func(r *Request) { r.ActorID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
