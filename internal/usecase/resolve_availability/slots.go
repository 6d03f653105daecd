package resolve_availability

import (
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

// Resolve единственная точка истины для вопроса "можно ли забронировать
// слот X на дату Y у врача Z". Чистая функция над уже загруженными данными:
// календарём врача и активными приёмами на дату (журнал бронирований).
//
// Используется и для отображения доступности, и для повторной проверки
// непосредственно перед записью внутри сериализуемой транзакции.
//
// Порядок проверок:
//  1. Дата в прошлом - все слоты недоступны (past_date), дата недоступна.
//  2. Дата целиком закрыта врачом - все слоты doctor_unavailable.
//  3. Для каждого слота сетки: прошедшее сегодня время - past_date,
//     заблокированный интервал - blocked_by_doctor, активный приём -
//     already_booked, иначе слот доступен.
//
// excludeAppointmentID - ID переносимого приёма: его собственный слот
// не считается занятым (перенос не должен блокировать сам себя).
//
// Отсутствие данных не является ошибкой: пустой календарь означает
// полностью открытое расписание, вызывающий код всегда получает
// корректный результат для отображения.
func Resolve(
	cal *domain.DoctorCalendar,
	ledger []*domain.Appointment,
	doctorID int64,
	date time.Time,
	now time.Time,
	excludeAppointmentID *int64,
) *domain.AvailabilityResult {
	result := &domain.AvailabilityResult{
		DoctorID:    doctorID,
		Date:        domain.DateOnly(date),
		Available:   make([]types.TimeString, 0),
		Unavailable: make([]domain.UnavailableSlot, 0),
	}

	slots := cal.CandidateSlots()

	// 1. Дата в прошлом - бронировать нечего
	if domain.IsDateInPast(date, now) {
		result.IsDateUnavailable = true
		for _, slot := range slots {
			result.Unavailable = append(result.Unavailable, domain.UnavailableSlot{
				Slot:   slot,
				Reason: domain.ReasonPastDate,
			})
		}
		return result
	}

	// 2. Дата целиком закрыта врачом
	if cal.IsDateUnavailable(date) {
		result.IsDateUnavailable = true
		for _, slot := range slots {
			result.Unavailable = append(result.Unavailable, domain.UnavailableSlot{
				Slot:   slot,
				Reason: domain.ReasonDoctorUnavailable,
			})
		}
		return result
	}

	blocked := cal.BlockedRanges(date)
	isToday := domain.SameDay(date, now)
	currentTime := types.NewTimeString(now)

	// 3. Поэлементное разбиение слот-сетки
	bookedCount := 0
	for _, slot := range slots {
		switch {
		case isToday && slot.IsBefore(currentTime):
			// Прошедшее время сегодняшнего дня никогда не предлагается
			result.Unavailable = append(result.Unavailable, domain.UnavailableSlot{
				Slot:   slot,
				Reason: domain.ReasonPastDate,
			})

		case slotBlocked(slot, blocked):
			result.Unavailable = append(result.Unavailable, domain.UnavailableSlot{
				Slot:   slot,
				Reason: domain.ReasonBlockedByDoctor,
			})

		case slotOccupied(slot, ledger, doctorID, date, excludeAppointmentID):
			result.Unavailable = append(result.Unavailable, domain.UnavailableSlot{
				Slot:   slot,
				Reason: domain.ReasonAlreadyBooked,
			})
			bookedCount++

		default:
			result.Available = append(result.Available, slot)
		}
	}

	// "Полностью занято" отличает день, заполненный пациентами, от дня,
	// закрытого врачом: все слоты должны быть именно already_booked
	result.IsDateFullyBooked = len(result.Available) == 0 &&
		len(slots) > 0 &&
		bookedCount == len(result.Unavailable)

	return result
}

// slotBlocked проверяет попадание слота в заблокированный интервал [start, end)
func slotBlocked(slot types.TimeString, blocked []domain.TimeRange) bool {
	for _, rng := range blocked {
		if rng.Contains(slot) {
			return true
		}
	}
	return false
}

// slotOccupied проверяет, занят ли слот активным приёмом.
// Приём с ID == excludeAppointmentID пропускается (carve-out для переноса).
func slotOccupied(
	slot types.TimeString,
	ledger []*domain.Appointment,
	doctorID int64,
	date time.Time,
	excludeAppointmentID *int64,
) bool {
	for _, appt := range ledger {
		if excludeAppointmentID != nil && appt.ID == *excludeAppointmentID {
			continue
		}
		if appt.OccupiesSlot(doctorID, date, slot) {
			return true
		}
	}
	return false
}
