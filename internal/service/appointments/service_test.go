package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	appointmentRepo "github.com/carewell/CW-AppointmentService/internal/infra/storage/appointment"
	"github.com/carewell/CW-AppointmentService/internal/service/appointments/models"
)

const (
	testDoctorID  = int64(12)
	testPatientID = int64(17)
)

var testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

// Мок репозитория приёмов

type mockAppointmentRepo struct {
	appointment *domain.Appointment
	list        []*domain.Appointment

	cancelledID     int64
	cancelReason    string
	updatedStatusTo domain.AppointmentStatus

	getErr    error
	listErr   error
	cancelErr error
	updateErr error
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	return m.appointment, m.getErr
}

func (m *mockAppointmentRepo) GetByPatientID(_ context.Context, _ int64, _ *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return m.list, m.listErr
}

func (m *mockAppointmentRepo) GetByDoctorWithFilter(_ context.Context, _ domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error) {
	return m.list, m.listErr
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedStatusTo = status
	return nil
}

func (m *mockAppointmentRepo) Cancel(_ context.Context, id int64, reason string) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelledID = id
	m.cancelReason = reason
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:        1,
		DoctorID:  testDoctorID,
		PatientID: testPatientID,
		Date:      testDate,
		StartTime: "10:30",
		Status:    domain.StatusPending,
		Mode:      domain.ModeInPerson,
	}
}

func TestService_GetByID_Access(t *testing.T) {
	tests := []struct {
		name  string
		role  domain.ActorRole
		actor int64
		want  error
	}{
		{name: "own patient", role: domain.RolePatient, actor: testPatientID, want: nil},
		{name: "foreign patient", role: domain.RolePatient, actor: 999, want: ErrAccessDenied},
		{name: "own doctor", role: domain.RoleDoctor, actor: testDoctorID, want: nil},
		{name: "foreign doctor", role: domain.RoleDoctor, actor: 999, want: ErrAccessDenied},
		{name: "admin", role: domain.RoleAdmin, actor: 999, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockAppointmentRepo{appointment: pendingAppointment()}, nopLogger{})

			resp, err := svc.GetByID(context.Background(), 1, tt.role, tt.actor)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.ID)
			assert.Equal(t, "2026-09-15", resp.Date)
			assert.Equal(t, "10:30", resp.StartTime)
		})
	}
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := NewService(&mockAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 1, domain.RoleAdmin, 1)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_GetPatientAppointments(t *testing.T) {
	repo := &mockAppointmentRepo{list: []*domain.Appointment{pendingAppointment()}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetPatientAppointments(context.Background(), &models.GetPatientAppointmentsRequest{
		PatientID: testPatientID,
		ActorRole: domain.RolePatient,
		ActorID:   testPatientID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, string(domain.StatusPending), resp.Appointments[0].Status)
}

func TestService_GetPatientAppointments_AccessDenied(t *testing.T) {
	svc := NewService(&mockAppointmentRepo{}, nopLogger{})

	tests := []struct {
		name string
		req  *models.GetPatientAppointmentsRequest
	}{
		{
			name: "foreign patient",
			req:  &models.GetPatientAppointmentsRequest{PatientID: testPatientID, ActorRole: domain.RolePatient, ActorID: 999},
		},
		{
			// Врачу история чужих пациентов недоступна
			name: "doctor",
			req:  &models.GetPatientAppointmentsRequest{PatientID: testPatientID, ActorRole: domain.RoleDoctor, ActorID: testDoctorID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetPatientAppointments(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrAccessDenied)
		})
	}
}

func TestService_GetPatientAppointments_InvalidStatus(t *testing.T) {
	svc := NewService(&mockAppointmentRepo{}, nopLogger{})

	status := "archived"
	_, err := svc.GetPatientAppointments(context.Background(), &models.GetPatientAppointmentsRequest{
		PatientID: testPatientID,
		Status:    &status,
		ActorRole: domain.RoleAdmin,
		ActorID:   1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetDoctorAppointments_Access(t *testing.T) {
	repo := &mockAppointmentRepo{list: []*domain.Appointment{pendingAppointment()}}
	svc := NewService(repo, nopLogger{})

	tests := []struct {
		name  string
		role  domain.ActorRole
		actor int64
		want  error
	}{
		{name: "own doctor", role: domain.RoleDoctor, actor: testDoctorID, want: nil},
		{name: "foreign doctor", role: domain.RoleDoctor, actor: 999, want: ErrAccessDenied},
		{name: "patient", role: domain.RolePatient, actor: testPatientID, want: ErrAccessDenied},
		{name: "admin", role: domain.RoleAdmin, actor: 999, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetDoctorAppointments(context.Background(), &models.GetDoctorAppointmentsRequest{
				DoctorID:  testDoctorID,
				ActorRole: tt.role,
				ActorID:   tt.actor,
			})
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Cancel(t *testing.T) {
	repo := &mockAppointmentRepo{appointment: pendingAppointment()}
	svc := NewService(repo, nopLogger{})

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		ActorRole:          domain.RolePatient,
		ActorID:            testPatientID,
		CancellationReason: "не смогу прийти",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), repo.cancelledID)
	assert.Equal(t, "не смогу прийти", repo.cancelReason)
}

func TestService_Cancel_NotCancellable(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			appt := pendingAppointment()
			appt.Status = status
			svc := NewService(&mockAppointmentRepo{appointment: appt}, nopLogger{})

			err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
				ActorRole: domain.RoleAdmin,
				ActorID:   1,
			})
			assert.ErrorIs(t, err, ErrCannotCancel)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	repo := &mockAppointmentRepo{appointment: pendingAppointment()}
	svc := NewService(repo, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ActorRole: domain.RoleDoctor,
		ActorID:   testDoctorID,
		Status:    "confirmed",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, repo.updatedStatusTo)
}

func TestService_UpdateStatus_PatientForbidden(t *testing.T) {
	svc := NewService(&mockAppointmentRepo{appointment: pendingAppointment()}, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ActorRole: domain.RolePatient,
		ActorID:   testPatientID,
		Status:    "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_UpdateStatus_InvalidStatus(t *testing.T) {
	svc := NewService(&mockAppointmentRepo{appointment: pendingAppointment()}, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ActorRole: domain.RoleAdmin,
		ActorID:   1,
		Status:    "archived",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateStatusTransition(t *testing.T) {
	tests := []struct {
		from domain.AppointmentStatus
		to   domain.AppointmentStatus
		ok   bool
	}{
		{domain.StatusPending, domain.StatusConfirmed, true},
		{domain.StatusPending, domain.StatusCompleted, true},
		{domain.StatusConfirmed, domain.StatusCompleted, true},

		{domain.StatusConfirmed, domain.StatusConfirmed, false},
		{domain.StatusCompleted, domain.StatusConfirmed, false},
		{domain.StatusCancelled, domain.StatusConfirmed, false},
		{domain.StatusCompleted, domain.StatusCompleted, false},
		// Отмена только через Cancel, возврат в pending только при переносе
		{domain.StatusConfirmed, domain.StatusCancelled, false},
		{domain.StatusConfirmed, domain.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			err := validateStatusTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}
