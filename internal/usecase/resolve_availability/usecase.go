package resolve_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	profileClient "github.com/carewell/CW-AppointmentService/internal/integrations/profileservice"
)

// UseCase use case расчёта доступности слотов врача на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	profileClient   ProfileServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	profileClient ProfileServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		profileClient:   profileClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case расчёта доступности.
// Результат вычисляется заново на каждый запрос: журнал бронирований
// меняется конкурентно, кешировать его между запросами нельзя.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveAvailability: doctor=%d, date=%s",
		req.DoctorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование врача
	if _, err := uc.profileClient.GetDoctor(ctx, req.DoctorID); err != nil {
		if errors.Is(err, profileClient.ErrDoctorNotFound) {
			uc.logger.Warn("ResolveAvailability: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("ResolveAvailability: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 4. Загружаем календарь врача (пустой календарь = полностью открыт)
	cal, err := uc.calendarRepo.GetByDoctorID(ctx, req.DoctorID)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get calendar for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	// 5. Загружаем журнал бронирований - активные приёмы на дату
	ledger, err := uc.appointmentRepo.GetActiveByDoctorAndDate(ctx, req.DoctorID, req.Date)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get appointments for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Разбиваем слот-сетку на доступные и занятые
	result := Resolve(cal, ledger, req.DoctorID, req.Date, now, req.ExcludeAppointmentID)

	uc.logger.Info("ResolveAvailability: doctor=%d, date=%s: %d available, %d unavailable, fullyBooked=%t, dateUnavailable=%t",
		req.DoctorID, req.Date.Format(domain.DateFormat),
		len(result.Available), len(result.Unavailable),
		result.IsDateFullyBooked, result.IsDateUnavailable)

	return &Response{Result: result}, nil
}
