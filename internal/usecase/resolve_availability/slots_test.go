package resolve_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/pkg/ptr"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

const doctorID = int64(12)

var (
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
)

func smallGridCalendar() *domain.DoctorCalendar {
	cal := domain.NewDoctorCalendar(doctorID)
	cal.BookableSlots = []types.TimeString{"09:00", "09:30", "10:00", "10:30"}
	return cal
}

func activeAppointment(id int64, slot types.TimeString) *domain.Appointment {
	return &domain.Appointment{
		ID:        id,
		DoctorID:  doctorID,
		PatientID: 100 + id,
		Date:      testDate,
		StartTime: slot,
		Status:    domain.StatusConfirmed,
	}
}

func reasonsBySlot(result *domain.AvailabilityResult) map[types.TimeString]domain.SlotReason {
	m := make(map[types.TimeString]domain.SlotReason, len(result.Unavailable))
	for _, u := range result.Unavailable {
		m[u.Slot] = u.Reason
	}
	return m
}

func TestResolve_EmptyCalendarFullyOpen(t *testing.T) {
	cal := domain.NewDoctorCalendar(doctorID)

	result := Resolve(cal, nil, doctorID, testDate, testNow, nil)

	// Пустой календарь - полностью открытое расписание с дефолтной сеткой
	assert.Len(t, result.Available, 18)
	assert.Empty(t, result.Unavailable)
	assert.False(t, result.IsDateFullyBooked)
	assert.False(t, result.IsDateUnavailable)
}

func TestResolve_PastDate(t *testing.T) {
	cal := smallGridCalendar()
	past := testNow.AddDate(0, 0, -1)

	result := Resolve(cal, nil, doctorID, past, testNow, nil)

	assert.True(t, result.IsDateUnavailable)
	assert.False(t, result.IsDateFullyBooked)
	assert.Empty(t, result.Available)
	require.Len(t, result.Unavailable, 4)
	for _, u := range result.Unavailable {
		assert.Equal(t, domain.ReasonPastDate, u.Reason)
	}
}

func TestResolve_DoctorUnavailableDate(t *testing.T) {
	cal := smallGridCalendar()
	cal.UnavailableDates[domain.DateKey(testDate)] = "отпуск"

	// Занятые слоты не важны: закрытый день перекрывает всё
	ledger := []*domain.Appointment{activeAppointment(1, "09:00")}

	result := Resolve(cal, ledger, doctorID, testDate, testNow, nil)

	assert.True(t, result.IsDateUnavailable)
	assert.False(t, result.IsDateFullyBooked)
	assert.Empty(t, result.Available)
	require.Len(t, result.Unavailable, 4)
	for _, u := range result.Unavailable {
		assert.Equal(t, domain.ReasonDoctorUnavailable, u.Reason)
	}
}

func TestResolve_BlockedRange(t *testing.T) {
	cal := smallGridCalendar()
	cal.UnavailableRanges[domain.DateKey(testDate)] = []domain.TimeRange{
		{Start: "09:30", End: "10:30", Reason: "обход"},
	}

	result := Resolve(cal, nil, doctorID, testDate, testNow, nil)

	// Полуинтервал [09:30, 10:30): граница 10:30 остаётся доступной
	assert.ElementsMatch(t, []types.TimeString{"09:00", "10:30"}, result.Available)

	reasons := reasonsBySlot(result)
	assert.Equal(t, domain.ReasonBlockedByDoctor, reasons["09:30"])
	assert.Equal(t, domain.ReasonBlockedByDoctor, reasons["10:00"])
}

func TestResolve_AlreadyBooked(t *testing.T) {
	cal := smallGridCalendar()
	ledger := []*domain.Appointment{
		activeAppointment(1, "09:30"),
		// Отменённый приём слот не занимает
		{
			ID: 2, DoctorID: doctorID, Date: testDate,
			StartTime: "10:00", Status: domain.StatusCancelled,
		},
	}

	result := Resolve(cal, ledger, doctorID, testDate, testNow, nil)

	assert.ElementsMatch(t, []types.TimeString{"09:00", "10:00", "10:30"}, result.Available)
	reasons := reasonsBySlot(result)
	assert.Equal(t, domain.ReasonAlreadyBooked, reasons["09:30"])
	assert.False(t, result.IsDateFullyBooked)
}

func TestResolve_ExcludeAppointment(t *testing.T) {
	cal := smallGridCalendar()
	ledger := []*domain.Appointment{
		activeAppointment(1, "09:30"),
		activeAppointment(2, "10:00"),
	}

	// Без carve-out слот 09:30 занят
	result := Resolve(cal, ledger, doctorID, testDate, testNow, nil)
	assert.False(t, result.IsSlotAvailable("09:30"))

	// С carve-out собственный слот переносимого приёма свободен,
	// чужой остаётся занятым
	result = Resolve(cal, ledger, doctorID, testDate, testNow, ptr.Ptr(int64(1)))
	assert.True(t, result.IsSlotAvailable("09:30"))
	assert.False(t, result.IsSlotAvailable("10:00"))
}

func TestResolve_FullyBooked(t *testing.T) {
	cal := smallGridCalendar()
	ledger := []*domain.Appointment{
		activeAppointment(1, "09:00"),
		activeAppointment(2, "09:30"),
		activeAppointment(3, "10:00"),
		activeAppointment(4, "10:30"),
	}

	result := Resolve(cal, ledger, doctorID, testDate, testNow, nil)

	assert.Empty(t, result.Available)
	assert.True(t, result.IsDateFullyBooked)
	assert.False(t, result.IsDateUnavailable)
}

func TestResolve_BlockedAndBookedIsNotFullyBooked(t *testing.T) {
	cal := smallGridCalendar()
	cal.UnavailableRanges[domain.DateKey(testDate)] = []domain.TimeRange{
		{Start: "09:00", End: "09:30"},
	}
	ledger := []*domain.Appointment{
		activeAppointment(1, "09:30"),
		activeAppointment(2, "10:00"),
		activeAppointment(3, "10:30"),
	}

	result := Resolve(cal, ledger, doctorID, testDate, testNow, nil)

	// Свободных слотов нет, но день заполнен не только пациентами:
	// 09:00 закрыл врач, поэтому "полностью занято" не выставляется
	assert.Empty(t, result.Available)
	assert.False(t, result.IsDateFullyBooked)
}

func TestResolve_TodayWithLocalNow(t *testing.T) {
	cal := smallGridCalendar()

	// Дата запроса распарсена в UTC, now идёт от серверных часов в локальной
	// таймзоне к западу от UTC. Сегодняшняя дата не должна стать прошлым
	date, err := time.Parse(domain.DateFormat, "2026-09-15")
	require.NoError(t, err)
	now := time.Date(2026, 9, 15, 8, 0, 0, 0, time.FixedZone("UTC-5", -5*3600))

	result := Resolve(cal, nil, doctorID, date, now, nil)

	assert.False(t, result.IsDateUnavailable)
	assert.ElementsMatch(t, []types.TimeString{"09:00", "09:30", "10:00", "10:30"}, result.Available)
}

func TestResolve_TodayPastSlots(t *testing.T) {
	cal := smallGridCalendar()
	now := time.Date(2026, 9, 15, 9, 45, 0, 0, time.UTC)

	result := Resolve(cal, nil, doctorID, testDate, now, nil)

	// Слоты до 09:45 уже прошли
	assert.ElementsMatch(t, []types.TimeString{"10:00", "10:30"}, result.Available)
	reasons := reasonsBySlot(result)
	assert.Equal(t, domain.ReasonPastDate, reasons["09:00"])
	assert.Equal(t, domain.ReasonPastDate, reasons["09:30"])
	assert.False(t, result.IsDateUnavailable)
}
