package models

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

var (
	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("invalid date format")

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidSlotGrid возвращается при некорректной слот-сетке
	ErrInvalidSlotGrid = errors.New("invalid slot grid")
)

// Request модели

// TimeRangePayload заблокированный диапазон внутри рабочего дня
type TimeRangePayload struct {
	Start  string `json:"start"`            // "13:00"
	End    string `json:"end"`              // "14:30"
	Reason string `json:"reason,omitempty"` // Причина блокировки (опционально)
}

// UpdateCalendarRequest запрос на полную замену календаря врача.
// Календарь заменяется целиком: частичных обновлений нет, клиент
// присылает новое состояние полностью
type UpdateCalendarRequest struct {
	ActorRole domain.ActorRole `json:"actorRole"`
	ActorID   int64            `json:"actorId"`

	UnavailableDates  map[string]string             `json:"unavailableDates,omitempty"`  // дата -> причина
	UnavailableRanges map[string][]TimeRangePayload `json:"unavailableRanges,omitempty"` // дата -> диапазоны
	BookableSlots     []string                      `json:"bookableSlots,omitempty"`     // пустой список = сетка по умолчанию
}

// ToDomainCalendar конвертирует request в domain модель с валидацией
func (r *UpdateCalendarRequest) ToDomainCalendar(doctorID int64) (*domain.DoctorCalendar, error) {
	cal := domain.NewDoctorCalendar(doctorID)

	for date, reason := range r.UnavailableDates {
		if _, err := time.Parse(domain.DateFormat, date); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		cal.UnavailableDates[date] = reason
	}

	for date, ranges := range r.UnavailableRanges {
		if _, err := time.Parse(domain.DateFormat, date); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		for _, tr := range ranges {
			domainRange, err := toDomainTimeRange(tr)
			if err != nil {
				return nil, err
			}
			cal.UnavailableRanges[date] = append(cal.UnavailableRanges[date], domainRange)
		}
	}

	if len(r.BookableSlots) > 0 {
		slots, err := toDomainSlots(r.BookableSlots)
		if err != nil {
			return nil, err
		}
		cal.BookableSlots = slots
	}

	return cal, nil
}

// toDomainTimeRange валидирует и конвертирует диапазон
func toDomainTimeRange(tr TimeRangePayload) (domain.TimeRange, error) {
	start, err := types.NewTimeStringFromString(tr.Start)
	if err != nil {
		return domain.TimeRange{}, fmt.Errorf("%w: start %q: %v", ErrInvalidTimeRange, tr.Start, err)
	}
	end, err := types.NewTimeStringFromString(tr.End)
	if err != nil {
		return domain.TimeRange{}, fmt.Errorf("%w: end %q: %v", ErrInvalidTimeRange, tr.End, err)
	}
	if !start.IsBefore(end) {
		return domain.TimeRange{}, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, start, end)
	}
	return domain.TimeRange{Start: start, End: end, Reason: tr.Reason}, nil
}

// toDomainSlots валидирует слот-сетку: корректные времена, без дубликатов,
// возвращается в отсортированном виде
func toDomainSlots(raw []string) ([]types.TimeString, error) {
	slots := make([]types.TimeString, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		slot, err := types.NewTimeStringFromString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %q: %v", ErrInvalidSlotGrid, s, err)
		}
		if _, ok := seen[slot.String()]; ok {
			return nil, fmt.Errorf("%w: duplicate slot %s", ErrInvalidSlotGrid, slot)
		}
		seen[slot.String()] = struct{}{}
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].IsBefore(slots[j]) })
	return slots, nil
}

// Response модели

// CalendarResponse ответ с календарём врача
type CalendarResponse struct {
	DoctorID          int64                         `json:"doctorId"`
	UnavailableDates  map[string]string             `json:"unavailableDates"`
	UnavailableRanges map[string][]TimeRangePayload `json:"unavailableRanges"`
	BookableSlots     []string                      `json:"bookableSlots"`
}

// FromDomainCalendar конвертирует domain модель в DTO.
// BookableSlots всегда заполнен: для врача без настроенной сетки
// возвращается сетка по умолчанию
func FromDomainCalendar(c *domain.DoctorCalendar) *CalendarResponse {
	if c == nil {
		return nil
	}

	resp := &CalendarResponse{
		DoctorID:          c.DoctorID,
		UnavailableDates:  make(map[string]string, len(c.UnavailableDates)),
		UnavailableRanges: make(map[string][]TimeRangePayload, len(c.UnavailableRanges)),
		BookableSlots:     make([]string, 0),
	}

	for date, reason := range c.UnavailableDates {
		resp.UnavailableDates[date] = reason
	}

	for date, ranges := range c.UnavailableRanges {
		payload := make([]TimeRangePayload, 0, len(ranges))
		for _, tr := range ranges {
			payload = append(payload, TimeRangePayload{
				Start:  tr.Start.String(),
				End:    tr.End.String(),
				Reason: tr.Reason,
			})
		}
		resp.UnavailableRanges[date] = payload
	}

	for _, slot := range c.CandidateSlots() {
		resp.BookableSlots = append(resp.BookableSlots, slot.String())
	}

	return resp
}
