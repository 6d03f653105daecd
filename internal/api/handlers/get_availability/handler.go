package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/carewell/CW-AppointmentService/internal/api/handlers"
	resolveAvailability "github.com/carewell/CW-AppointmentService/internal/usecase/resolve_availability"
)

const (
	msgInvalidDoctorID      = "некорректный ID врача"
	msgMissingDate          = "дата обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidExcludeParam  = "некорректный параметр excludeAppointmentId"
	msgDoctorNotFound       = "врач не найден"
	msgInvalidRequestParams = "некорректные параметры запроса"
)

type Handler struct {
	useCase ResolveAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ResolveAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/availability
// Query params: date (required, YYYY-MM-DD), excludeAppointmentId (optional,
// используется формой переноса - текущий слот приёма показывается свободным)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем doctorId из URL
	doctorIDStr := vars["doctorId"]
	doctorID, err := strconv.ParseInt(doctorIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/availability - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /doctors/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Извлекаем excludeAppointmentId из query параметров (опционально)
	var excludeAppointmentID *int64
	if excludeStr := r.URL.Query().Get("excludeAppointmentId"); excludeStr != "" {
		excludeID, err := strconv.ParseInt(excludeStr, 10, 64)
		if err != nil || excludeID <= 0 {
			h.logger.Warn("GET /doctors/{id}/availability - Invalid excludeAppointmentId: %v", err)
			handlers.RespondBadRequest(w, msgInvalidExcludeParam)
			return
		}
		excludeAppointmentID = &excludeID
	}

	// Формируем запрос к use case (с парсингом даты)
	useCaseReq, err := ToUseCaseRequest(doctorID, dateStr, excludeAppointmentID)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, resolveAvailability.ErrDoctorNotFound):
			h.logger.Warn("GET /doctors/{id}/availability - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, resolveAvailability.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/availability - Invalid input: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestParams)

		default:
			h.logger.Error("GET /doctors/{id}/availability - Failed to resolve availability: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /doctors/{id}/availability - Availability resolved: doctor_id=%d, date=%s, available_count=%d",
		doctorID, dateStr, len(response.Available))
	handlers.RespondJSON(w, http.StatusOK, response)
}
