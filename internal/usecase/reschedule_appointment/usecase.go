package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	appointmentRepo "github.com/carewell/CW-AppointmentService/internal/infra/storage/appointment"
	"github.com/carewell/CW-AppointmentService/internal/usecase/resolve_availability"
)

// UseCase use case переноса приёма на новый слот
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case переноса приёма.
// Проверка доступности нового слота и перенос выполняются в одной
// сериализуемой транзакции: сам приём и приёмы дня блокируются FOR UPDATE,
// доступность разрешается заново прямо перед переносом. Текущий слот
// переносимого приёма при этом исключается из занятых - перенос на тот же
// слот (например, со сменой только формата) не конфликтует сам с собой.
// После переноса статус сбрасывается в pending: врач подтверждает заново.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, newDate=%s, newTime=%s, actor=%s:%d",
		req.AppointmentID, req.NewDate.Format(domain.DateFormat), req.NewTime, req.ActorRole, req.ActorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Переменная для хранения результата
	var result *domain.Appointment

	// 3. Проверка и перенос в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Загружаем приём с блокировкой (FOR UPDATE)
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 3.2. Проверяем право актора на перенос
		if err := validateAccess(appt, req.ActorRole, req.ActorID); err != nil {
			uc.logger.Warn("RescheduleAppointment: access denied for %s:%d to appointment id=%d",
				req.ActorRole, req.ActorID, appt.ID)
			return err
		}

		// 3.3. Отменённые и завершённые приёмы не переносятся
		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d in status %s cannot be rescheduled",
				appt.ID, appt.Status)
			return ErrCannotReschedule
		}

		// 3.4. Загружаем календарь врача и валидируем новую дату и слот
		cal, err := uc.calendarRepo.GetByDoctorID(txCtx, appt.DoctorID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get calendar: %v", err)
			return fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
		}

		if err := validateDate(req.NewDate, now, cal); err != nil {
			uc.logger.Warn("RescheduleAppointment: date validation failed: %v", err)
			return err
		}
		if err := validateSlotInGrid(req.NewTime, cal); err != nil {
			uc.logger.Warn("RescheduleAppointment: slot validation failed: %v", err)
			return err
		}

		// 3.5. Загружаем активные приёмы на новую дату с блокировкой (FOR UPDATE)
		ledger, err := uc.appointmentRepo.GetActiveByDoctorAndDate(txCtx, appt.DoctorID, req.NewDate)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 3.6. Разрешаем доступность, исключив переносимый приём из занятых
		availability := resolve_availability.Resolve(cal, ledger, appt.DoctorID, req.NewDate, now, &appt.ID)
		if !availability.IsSlotAvailable(req.NewTime) {
			uc.logger.Warn("RescheduleAppointment: slot %s on %s is not available for doctor=%d",
				req.NewTime, req.NewDate.Format(domain.DateFormat), appt.DoctorID)
			return ErrSlotNotAvailable
		}

		// 3.7. Формат и заметки меняются только если переданы
		mode := appt.Mode
		if req.Mode != nil {
			mode = *req.Mode
		}
		notes := appt.Notes
		if req.Notes != nil {
			notes = req.Notes
		}

		rescheduledBy := fmt.Sprintf("%s:%d", req.ActorRole, req.ActorID)

		updated, err := uc.appointmentRepo.Reschedule(
			txCtx,
			appt.ID,
			domain.DateOnly(req.NewDate),
			req.NewTime,
			mode,
			notes,
			rescheduledBy,
		)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to reschedule appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to reschedule appointment: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to %s %s, status reset to %s",
		result.ID, result.Date.Format(domain.DateFormat), result.StartTime, result.Status)

	return fromDomain(result), nil
}
