package update_doctor_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/carewell/CW-AppointmentService/internal/api/handlers"
	"github.com/carewell/CW-AppointmentService/internal/api/middleware"
	"github.com/carewell/CW-AppointmentService/internal/service/calendar"
)

const (
	msgInvalidDoctorID    = "некорректный ID врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgDoctorNotFound     = "врач не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidCalendar    = "некорректные данные календаря"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/doctors/{doctorId}/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем doctorId из URL
	vars := mux.Vars(r)
	doctorIDStr := vars["doctorId"]

	doctorID, err := strconv.ParseInt(doctorIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /doctors/{id}/calendar - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	// Получаем актора из контекста (через middleware Auth)
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /doctors/{id}/calendar - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetUserRole(r.Context())

	var req UpdateCalendarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /doctors/{id}/calendar - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Заменяем календарь (сервис сам проверит права доступа и payload)
	result, err := h.service.Replace(r.Context(), doctorID, req.ToServiceRequest(role, actorID))
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrDoctorNotFound):
			h.logger.Warn("PUT /doctors/{id}/calendar - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("PUT /doctors/{id}/calendar - Access denied: doctor_id=%d, actor=%s:%d",
				doctorID, role, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("PUT /doctors/{id}/calendar - Invalid calendar payload: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidCalendar)

		default:
			h.logger.Error("PUT /doctors/{id}/calendar - Failed to replace calendar: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /doctors/{id}/calendar - Calendar replaced successfully: doctor_id=%d, actor=%s:%d",
		doctorID, role, actorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
