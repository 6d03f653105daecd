package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	appointmentRepo "github.com/carewell/CW-AppointmentService/internal/infra/storage/appointment"
	"github.com/carewell/CW-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с приёмами
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса приёмов
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает приём по ID
// Проверяет права доступа - пациент видит свои приёмы, врач приёмы к себе,
// админ любые
func (s *Service) GetByID(ctx context.Context, id int64, role domain.ActorRole, actorID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for %s:%d", id, role, actorID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkActorAccess(appt, role, actorID); err != nil {
		s.logger.Warn("GetByID: access denied for %s:%d to appointment id=%d", role, actorID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetPatientAppointments получает историю приёмов пациента
// Опционально фильтрует по статусу. Пациент видит только свою историю,
// врачу история чужих пациентов недоступна
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: fetching appointments for patient=%d, status=%v", req.PatientID, req.Status)

	// Проверяем права доступа
	switch req.ActorRole {
	case domain.RolePatient:
		if req.ActorID != req.PatientID {
			s.logger.Warn("GetPatientAppointments: access denied for patient=%d to history of patient=%d",
				req.ActorID, req.PatientID)
			return nil, ErrAccessDenied
		}
	case domain.RoleAdmin:
		// полный доступ
	default:
		s.logger.Warn("GetPatientAppointments: access denied for %s:%d", req.ActorRole, req.ActorID)
		return nil, ErrAccessDenied
	}

	// Конвертируем статус из строки в domain.AppointmentStatus
	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetPatientAppointments: invalid status=%s for patient=%d", *req.Status, req.PatientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appts, err := s.appointmentRepo.GetByPatientID(ctx, req.PatientID, domainStatus)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientAppointments: successfully fetched %d appointments for patient=%d", len(appts), req.PatientID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetDoctorAppointments получает расписание врача с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных приёмов
// Доступно врачу для своего расписания и админу для любого
//
// Примеры использования:
// - Все активные приёмы: GetDoctorAppointments(ctx, &GetDoctorAppointmentsRequest{DoctorID: 12, ...})
// - Приёмы на дату: StartDate и EndDate указывают на одну дату
// - Приёмы за период: StartDate и EndDate указывают на разные даты
// - Только подтверждённые: указать Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetDoctorAppointments(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("GetDoctorAppointments: fetching appointments for doctor=%d, actor=%s:%d",
		req.DoctorID, req.ActorRole, req.ActorID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Проверяем права доступа
	switch req.ActorRole {
	case domain.RoleDoctor:
		if req.ActorID != req.DoctorID {
			s.logger.Warn("GetDoctorAppointments: access denied for doctor=%d to schedule of doctor=%d",
				req.ActorID, req.DoctorID)
			return nil, ErrAccessDenied
		}
	case domain.RoleAdmin:
		// полный доступ
	default:
		s.logger.Warn("GetDoctorAppointments: access denied for %s:%d", req.ActorRole, req.ActorID)
		return nil, ErrAccessDenied
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetDoctorAppointments: invalid filter for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	// Получаем приёмы с фильтрацией
	appts, err := s.appointmentRepo.GetByDoctorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetDoctorAppointments: repository error for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDoctorAppointments: successfully fetched %d appointments for doctor=%d", len(appts), req.DoctorID)
	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет приём
// Пациент может отменить только свой приём, врач - приёмы к себе, админ любой.
// Отмена не удаляет запись: приём получает статус cancelled и немедленно
// освобождает слот для новых записей
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by %s:%d", appointmentID, req.ActorRole, req.ActorID)

	// Получаем приём
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkActorAccess(appt, req.ActorRole, req.ActorID); err != nil {
		s.logger.Warn("Cancel: access denied for %s:%d to cancel appointment id=%d",
			req.ActorRole, req.ActorID, appointmentID)
		return err
	}

	// Проверяем, можно ли отменить приём
	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	// Отменяем приём
	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// UpdateStatus обновляет статус приёма
// Доступно только врачу (для приёмов к себе) и админу.
// Разрешённые переходы: pending -> confirmed (подтверждение врачом),
// pending/confirmed -> completed (приём состоялся).
// Отмена выполняется через Cancel, а не через смену статуса
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by %s:%d",
		appointmentID, req.Status, req.ActorRole, req.ActorID)

	// Получаем приём
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа (пациенту статус менять нельзя)
	switch req.ActorRole {
	case domain.RoleDoctor:
		if appt.DoctorID != req.ActorID {
			s.logger.Warn("UpdateStatus: access denied for doctor=%d to appointment id=%d", req.ActorID, appointmentID)
			return ErrAccessDenied
		}
	case domain.RoleAdmin:
		// полный доступ
	default:
		s.logger.Warn("UpdateStatus: access denied for %s:%d", req.ActorRole, req.ActorID)
		return ErrAccessDenied
	}

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Проверяем допустимость перехода
	if err := validateStatusTransition(appt.Status, newStatus); err != nil {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
			appt.Status, newStatus, appointmentID)
		return err
	}

	// Обновляем статус
	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return nil
}

// Вспомогательные методы

// checkActorAccess проверяет, что актор имеет доступ к приёму
func (s *Service) checkActorAccess(appt *domain.Appointment, role domain.ActorRole, actorID int64) error {
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

// validateStatusTransition проверяет допустимость перехода статуса
func validateStatusTransition(from, to domain.AppointmentStatus) error {
	switch to {
	case domain.StatusConfirmed:
		if from != domain.StatusPending {
			return ErrInvalidTransition
		}
	case domain.StatusCompleted:
		if from != domain.StatusPending && from != domain.StatusConfirmed {
			return ErrInvalidTransition
		}
	default:
		// cancelled выставляется только через Cancel, pending только при переносе
		return ErrInvalidTransition
	}
	return nil
}
