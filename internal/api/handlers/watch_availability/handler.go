package watch_availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/carewell/CW-AppointmentService/internal/api/handlers"
	getAvailability "github.com/carewell/CW-AppointmentService/internal/api/handlers/get_availability"
	resolveAvailability "github.com/carewell/CW-AppointmentService/internal/usecase/resolve_availability"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDoctorNotFound  = "врач не найден"
	msgStreamingBroken = "streaming не поддерживается"
)

type Handler struct {
	useCase ResolveAvailabilityUseCase
	hub     AvailabilityHub
	logger  Logger
}

func NewHandler(useCase ResolveAvailabilityUseCase, hub AvailabilityHub, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		hub:     hub,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/availability/watch
// Query params: date (required, YYYY-MM-DD)
//
// SSE поток: сразу отдаётся текущий снапшот доступности, затем свежий
// снапшот при каждом изменении занятости слотов врача. Клиент держит
// соединение открытым, пока пациент выбирает слот
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем doctorId из URL
	doctorIDStr := vars["doctorId"]
	doctorID, err := strconv.ParseInt(doctorIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/availability/watch - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /doctors/{id}/availability/watch - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := getAvailability.ToUseCaseRequest(doctorID, dateStr, nil)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/availability/watch - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("GET /doctors/{id}/availability/watch - ResponseWriter does not support flushing")
		handlers.RespondError(w, http.StatusInternalServerError, msgStreamingBroken)
		return
	}

	// Подписываемся до разрешения первого снапшота: запись, успевшая
	// между снапшотом и подпиской, иначе терялась бы до следующего события
	events, unsubscribe := h.hub.Subscribe(doctorID)
	defer unsubscribe()

	// Первый снапшот до перехода в streaming режим - ошибки ещё можно
	// отдать обычным статусом
	snapshot, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if errors.Is(err, resolveAvailability.ErrDoctorNotFound) {
			h.logger.Warn("GET /doctors/{id}/availability/watch - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)
			return
		}
		h.logger.Error("GET /doctors/{id}/availability/watch - Failed to resolve availability: doctor_id=%d, error=%v",
			doctorID, err)
		handlers.RespondInternalError(w)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.logger.Info("GET /doctors/{id}/availability/watch - Stream opened: doctor_id=%d, date=%s", doctorID, dateStr)

	if err := writeSSE(w, snapshot); err != nil {
		h.logger.Warn("GET /doctors/{id}/availability/watch - Failed to write snapshot: %v", err)
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("GET /doctors/{id}/availability/watch - Stream closed by client: doctor_id=%d", doctorID)
			return

		case <-events:
			// События других дат тоже приводят к обновлению снапшота:
			// проще переразрешить, чем фильтровать по дате с учётом переносов
			snapshot, err := h.useCase.Execute(r.Context(), useCaseReq)
			if err != nil {
				h.logger.Error("GET /doctors/{id}/availability/watch - Failed to refresh availability: doctor_id=%d, error=%v",
					doctorID, err)
				return
			}

			if err := writeSSE(w, snapshot); err != nil {
				h.logger.Warn("GET /doctors/{id}/availability/watch - Failed to write event: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSE пишет снапшот доступности как SSE событие
func writeSSE(w http.ResponseWriter, resp *resolveAvailability.Response) error {
	payload, err := json.Marshal(getAvailability.FromUseCaseResponse(resp))
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte("event: availability\ndata: ")); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}
