package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell/CW-AppointmentService/internal/domain"
	"github.com/carewell/CW-AppointmentService/pkg/types"
)

func TestUpdateCalendarRequest_ToDomainCalendar(t *testing.T) {
	req := &UpdateCalendarRequest{
		UnavailableDates: map[string]string{
			"2026-09-21": "отпуск",
		},
		UnavailableRanges: map[string][]TimeRangePayload{
			"2026-09-22": {
				{Start: "13:00", End: "14:30", Reason: "обход"},
			},
		},
		BookableSlots: []string{"10:00", "09:00", "11:00"},
	}

	cal, err := req.ToDomainCalendar(12)
	require.NoError(t, err)

	assert.Equal(t, int64(12), cal.DoctorID)
	assert.Equal(t, "отпуск", cal.UnavailableDates["2026-09-21"])

	ranges := cal.UnavailableRanges["2026-09-22"]
	require.Len(t, ranges, 1)
	assert.Equal(t, types.TimeString("13:00"), ranges[0].Start)
	assert.Equal(t, types.TimeString("14:30"), ranges[0].End)

	// Слот-сетка возвращается отсортированной
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "11:00"}, cal.BookableSlots)
}

func TestUpdateCalendarRequest_ToDomainCalendar_EmptyGrid(t *testing.T) {
	cal, err := (&UpdateCalendarRequest{}).ToDomainCalendar(12)
	require.NoError(t, err)

	// Пустая сетка означает сетку по умолчанию
	assert.Empty(t, cal.BookableSlots)
	assert.Equal(t, domain.DefaultBookableSlots(), cal.CandidateSlots())
}

func TestUpdateCalendarRequest_ToDomainCalendar_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  *UpdateCalendarRequest
		want error
	}{
		{
			name: "bad date key",
			req: &UpdateCalendarRequest{
				UnavailableDates: map[string]string{"21.09.2026": "отпуск"},
			},
			want: ErrInvalidDate,
		},
		{
			name: "bad range date key",
			req: &UpdateCalendarRequest{
				UnavailableRanges: map[string][]TimeRangePayload{
					"tomorrow": {{Start: "13:00", End: "14:00"}},
				},
			},
			want: ErrInvalidDate,
		},
		{
			name: "malformed range time",
			req: &UpdateCalendarRequest{
				UnavailableRanges: map[string][]TimeRangePayload{
					"2026-09-22": {{Start: "25:99", End: "14:00"}},
				},
			},
			want: ErrInvalidTimeRange,
		},
		{
			name: "inverted range",
			req: &UpdateCalendarRequest{
				UnavailableRanges: map[string][]TimeRangePayload{
					"2026-09-22": {{Start: "15:00", End: "14:00"}},
				},
			},
			want: ErrInvalidTimeRange,
		},
		{
			name: "empty range",
			req: &UpdateCalendarRequest{
				UnavailableRanges: map[string][]TimeRangePayload{
					"2026-09-22": {{Start: "14:00", End: "14:00"}},
				},
			},
			want: ErrInvalidTimeRange,
		},
		{
			name: "malformed slot",
			req: &UpdateCalendarRequest{
				BookableSlots: []string{"10:00", "later"},
			},
			want: ErrInvalidSlotGrid,
		},
		{
			name: "duplicate slot",
			req: &UpdateCalendarRequest{
				BookableSlots: []string{"10:00", "10:00"},
			},
			want: ErrInvalidSlotGrid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToDomainCalendar(12)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFromDomainCalendar(t *testing.T) {
	cal := domain.NewDoctorCalendar(12)
	cal.UnavailableDates["2026-09-21"] = "отпуск"
	cal.UnavailableRanges["2026-09-22"] = []domain.TimeRange{
		{Start: "13:00", End: "14:30", Reason: "обход"},
	}

	resp := FromDomainCalendar(cal)
	require.NotNil(t, resp)

	assert.Equal(t, int64(12), resp.DoctorID)
	assert.Equal(t, "отпуск", resp.UnavailableDates["2026-09-21"])
	require.Len(t, resp.UnavailableRanges["2026-09-22"], 1)
	assert.Equal(t, "13:00", resp.UnavailableRanges["2026-09-22"][0].Start)

	// Без настроенной сетки отдаётся дефолтная, а не пустой список
	assert.Len(t, resp.BookableSlots, 18)
	assert.Equal(t, "09:00", resp.BookableSlots[0])
}

func TestFromDomainCalendar_Nil(t *testing.T) {
	assert.Nil(t, FromDomainCalendar(nil))
}
