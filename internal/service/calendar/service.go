package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	profileClient "github.com/carewell/CW-AppointmentService/internal/integrations/profileservice"
	"github.com/carewell/CW-AppointmentService/internal/service/calendar/models"
)

// Service сервис для работы с календарём врача
type Service struct {
	calendarRepo  CalendarRepository
	profileClient ProfileServiceClient
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	calendarRepo CalendarRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		calendarRepo:  calendarRepo,
		profileClient: profileClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// Get получает календарь врача
// Публичный метод - пациенты видят календарь при выборе слота.
// Для врача без сохранённого календаря возвращается пустой календарь
// с сеткой по умолчанию: все дни открыты
func (s *Service) Get(ctx context.Context, doctorID int64) (*models.CalendarResponse, error) {
	s.logger.Info("Get: fetching calendar for doctor=%d", doctorID)

	if _, err := s.profileClient.GetDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, profileClient.ErrDoctorNotFound) {
			s.logger.Warn("Get: doctor id=%d not found", doctorID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("Get: failed to get doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	cal, err := s.calendarRepo.GetByDoctorID(ctx, doctorID)
	if err != nil {
		s.logger.Error("Get: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: successfully fetched calendar for doctor=%d", doctorID)
	return models.FromDomainCalendar(cal), nil
}

// Replace полностью заменяет календарь врача
// Доступно врачу для своего календаря и админу для любого.
// Замена выполняется в транзакции: читатели видят либо старый календарь
// целиком, либо новый, но не смесь.
// Уже записанные приёмы на закрываемые дни не отменяются автоматически -
// врач разбирается с ними через своё расписание
func (s *Service) Replace(ctx context.Context, doctorID int64, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("Replace: replacing calendar for doctor=%d by %s:%d", doctorID, req.ActorRole, req.ActorID)

	// Проверяем права доступа
	switch req.ActorRole {
	case domain.RoleDoctor:
		if req.ActorID != doctorID {
			s.logger.Warn("Replace: access denied for doctor=%d to calendar of doctor=%d", req.ActorID, doctorID)
			return nil, ErrAccessDenied
		}
	case domain.RoleAdmin:
		// полный доступ
	default:
		s.logger.Warn("Replace: access denied for %s:%d", req.ActorRole, req.ActorID)
		return nil, ErrAccessDenied
	}

	// Проверяем существование врача
	if _, err := s.profileClient.GetDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, profileClient.ErrDoctorNotFound) {
			s.logger.Warn("Replace: doctor id=%d not found", doctorID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("Replace: failed to get doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// Валидируем и конвертируем payload
	cal, err := req.ToDomainCalendar(doctorID)
	if err != nil {
		s.logger.Warn("Replace: invalid calendar payload for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Заменяем календарь в транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.calendarRepo.Replace(txCtx, cal); err != nil {
			s.logger.Error("Replace: repository error for doctor=%d: %v", doctorID, err)
			return fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Replace: successfully replaced calendar for doctor=%d", doctorID)
	return models.FromDomainCalendar(cal), nil
}
