package book_appointment

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

const (
	testDoctorID  = int64(12)
	testPatientID = int64(7)
)

var (
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
)

// Моки контрактов use case

type mockAppointmentRepo struct {
	active  []*domain.Appointment
	created *domain.Appointment

	createErr error
	activeErr error
}

func (m *mockAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *appt
	created.ID = 1
	created.CreatedAt = testNow
	created.UpdatedAt = testNow
	m.created = &created
	return &created, nil
}

func (m *mockAppointmentRepo) GetActiveByDoctorAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return m.active, m.activeErr
}

type mockCalendarRepo struct {
	calendar *domain.DoctorCalendar
	err      error
}

func (m *mockCalendarRepo) GetByDoctorID(_ context.Context, _ int64) (*domain.DoctorCalendar, error) {
	return m.calendar, m.err
}

type mockProfileClient struct {
	doctor     *profileservice.Doctor
	patient    *profileservice.Patient
	doctorErr  error
	patientErr error
}

func (m *mockProfileClient) GetDoctor(_ context.Context, _ int64) (*profileservice.Doctor, error) {
	return m.doctor, m.doctorErr
}

func (m *mockProfileClient) GetPatientWithGracefulDegradation(_ context.Context, _ int64) (*profileservice.Patient, error) {
	return m.patient, m.patientErr
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
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

func validRequest() *Request {
	return &Request{
		PatientID: testPatientID,
		DoctorID:  testDoctorID,
		Date:      testDate,
		StartTime: "10:00",
		Mode:      domain.ModeInPerson,
	}
}

func newTestUseCase(
	appointmentRepo *mockAppointmentRepo,
	calendarRepo *mockCalendarRepo,
	profileClient *mockProfileClient,
	txManager *fakeTxManager,
) *UseCase {
	uc := NewUseCase(appointmentRepo, calendarRepo, profileClient, txManager, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func defaultMocks() (*mockAppointmentRepo, *mockCalendarRepo, *mockProfileClient, *fakeTxManager) {
	return &mockAppointmentRepo{},
		&mockCalendarRepo{calendar: domain.NewDoctorCalendar(testDoctorID)},
		&mockProfileClient{
			doctor:  &profileservice.Doctor{ID: testDoctorID, FullName: "Петров Пётр Петрович", IsActive: true},
			patient: &profileservice.Patient{ID: testPatientID, FullName: "Сидорова Анна Павловна"},
		},
		&fakeTxManager{}
}

func TestUseCase_Execute(t *testing.T) {
	appointmentRepo, calendarRepo, profileClient, txManager := defaultMocks()
	uc := newTestUseCase(appointmentRepo, calendarRepo, profileClient, txManager)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Приём создаётся в статусе pending с денормализованными именами
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, "Сидорова Анна Павловна", resp.PatientName)
	assert.Equal(t, "Петров Пётр Петрович", resp.DoctorName)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)

	// Проверка и вставка прошли внутри сериализуемой транзакции
	assert.Equal(t, 1, txManager.calls)
	require.NotNil(t, appointmentRepo.created)
	assert.Equal(t, domain.StatusPending, appointmentRepo.created.Status)
}

func TestUseCase_Execute_SlotTaken(t *testing.T) {
	appointmentRepo, calendarRepo, profileClient, txManager := defaultMocks()
	appointmentRepo.active = []*domain.Appointment{
		{
			ID: 99, DoctorID: testDoctorID, PatientID: 42,
			Date: testDate, StartTime: "10:00", Status: domain.StatusConfirmed,
		},
	}
	uc := newTestUseCase(appointmentRepo, calendarRepo, profileClient, txManager)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, appointmentRepo.created)
}

func TestUseCase_Execute_DateUnavailable(t *testing.T) {
	appointmentRepo, calendarRepo, profileClient, txManager := defaultMocks()
	calendarRepo.calendar.UnavailableDates[domain.DateKey(testDate)] = "конференция"
	uc := newTestUseCase(appointmentRepo, calendarRepo, profileClient, txManager)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDateUnavailable)
}

func TestUseCase_Execute_PastDate(t *testing.T) {
	appointmentRepo, calendarRepo, profileClient, txManager := defaultMocks()
	uc := newTestUseCase(appointmentRepo, calendarRepo, profileClient, txManager)

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUseCase_Execute_SlotNotInGrid(t *testing.T) {
	appointmentRepo, calendarRepo, profileClient, txManager := defaultMocks()
	uc := newTestUseCase(appointmentRepo, calendarRepo, profileClient, txManager)

	req := validRequest()
	req.StartTime = "10:15" // сетка по умолчанию имеет шаг 30 минут

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestUseCase_Execute_DoctorNotFound(t *testing.T) {
	appointmentRepo, calendarRepo, profileClient, txManager := defaultMocks()
	profileClient.doctor = nil
	profileClient.doctorErr = profileservice.ErrDoctorNotFound
	uc := newTestUseCase(appointmentRepo, calendarRepo, profileClient, txManager)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUseCase_Execute_ProfileServiceDegraded(t *testing.T) {
	appointmentRepo, calendarRepo, profileClient, txManager := defaultMocks()
	profileClient.patient = nil
	profileClient.patientErr = profileservice.ErrServiceDegraded
	uc := newTestUseCase(appointmentRepo, calendarRepo, profileClient, txManager)

	// Недоступность ProfileService не блокирует запись -
	// приём создаётся без денормализованного имени пациента
	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.PatientName)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	appointmentRepo, calendarRepo, profileClient, txManager := defaultMocks()
	uc := newTestUseCase(appointmentRepo, calendarRepo, profileClient, txManager)

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "zero patient", mutate: func(r *Request) { r.PatientID = 0 }},
		{name: "zero doctor", mutate: func(r *Request) { r.DoctorID = 0 }},
		{name: "zero date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "empty time", mutate: func(r *Request) { r.StartTime = "" }},
		{name: "malformed time", mutate: func(r *Request) { r.StartTime = "25:99" }},
		{name: "unknown mode", mutate: func(r *Request) { r.Mode = "telepathy" }},
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
