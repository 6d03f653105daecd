package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	profileClient "github.com/carewell/CW-AppointmentService/internal/integrations/profileservice"
	"github.com/carewell/CW-AppointmentService/internal/usecase/resolve_availability"
)

// UseCase use case записи пациента к врачу
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	profileClient   ProfileServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		profileClient:   profileClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case записи к врачу.
// Проверка доступности и вставка выполняются в одной сериализуемой
// транзакции с блокировкой приёмов дня (FOR UPDATE): снапшот доступности,
// который видел клиент, к моменту записи мог устареть, поэтому прямо перед
// записью доступность разрешается заново. Проигравший гонку за последний
// слот получает ErrSlotNotAvailable, частичных записей не остаётся.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: patient=%d, doctor=%d, date=%s, time=%s",
		req.PatientID, req.DoctorID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем врача
	doctor, err := uc.profileClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, profileClient.ErrDoctorNotFound) {
			uc.logger.Warn("BookAppointment: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("BookAppointment: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 4. Получаем пациента (с graceful degradation для денормализации имени)
	patientName := ""
	patient, err := uc.profileClient.GetPatientWithGracefulDegradation(ctx, req.PatientID)
	switch {
	case err == nil:
		patientName = patient.FullName
	case errors.Is(err, profileClient.ErrPatientNotFound):
		uc.logger.Warn("BookAppointment: patient id=%d not found", req.PatientID)
		return nil, ErrPatientNotFound
	case errors.Is(err, profileClient.ErrServiceDegraded):
		// ProfileService недоступен - записываем без денормализованного имени
		uc.logger.Warn("BookAppointment: profile service degraded, booking without patient name: %v", err)
	default:
		uc.logger.Error("BookAppointment: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 5. Проверка доступности и запись в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Загружаем календарь врача
		cal, err := uc.calendarRepo.GetByDoctorID(txCtx, req.DoctorID)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to get calendar: %v", err)
			return fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
		}

		// 5.2. Валидация даты и слота против календаря
		if err := validateDate(req.Date, now, cal); err != nil {
			uc.logger.Warn("BookAppointment: date validation failed: %v", err)
			return err
		}
		if err := validateSlotInGrid(req.StartTime, cal); err != nil {
			uc.logger.Warn("BookAppointment: slot validation failed: %v", err)
			return err
		}

		// 5.3. Загружаем активные приёмы на дату с блокировкой (FOR UPDATE)
		ledger, err := uc.appointmentRepo.GetActiveByDoctorAndDate(txCtx, req.DoctorID, req.Date)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 5.4. Повторно разрешаем доступность по свежему состоянию
		availability := resolve_availability.Resolve(cal, ledger, req.DoctorID, req.Date, now, nil)
		if !availability.IsSlotAvailable(req.StartTime) {
			uc.logger.Warn("BookAppointment: slot %s on %s is not available for doctor=%d",
				req.StartTime, req.Date.Format(domain.DateFormat), req.DoctorID)
			return ErrSlotNotAvailable
		}

		// 5.5. Создаем приём со статусом pending (ожидает подтверждения врачом)
		appt := &domain.Appointment{
			DoctorID:    req.DoctorID,
			PatientID:   req.PatientID,
			Date:        domain.DateOnly(req.Date),
			StartTime:   req.StartTime,
			Status:      domain.StatusPending,
			Mode:        req.Mode,
			PatientName: patientName,
			DoctorName:  doctor.FullName,
			Notes:       req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: successfully created appointment id=%d", result.ID)

	return fromDomain(result), nil
}
