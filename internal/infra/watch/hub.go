package watch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lib/pq"
)

const (
	// channelAppointmentsChanged - имя NOTIFY канала PostgreSQL,
	// триггер на таблице appointments шлёт в него событие при каждом
	// изменении занятости слотов
	channelAppointmentsChanged = "appointments_changed"

	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute

	// pingInterval - период проверки соединения при отсутствии событий
	pingInterval = 90 * time.Second

	// subscriberBuffer - размер буфера канала подписчика; медленный
	// подписчик теряет события, но не блокирует рассылку
	subscriberBuffer = 16
)

// Event событие изменения занятости слотов врача
type Event struct {
	DoctorID int64  `json:"doctorId"`
	Date     string `json:"date"` // "2026-09-15"
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Hub раздаёт события изменения занятости слотов подписчикам.
// Источник событий - PostgreSQL LISTEN/NOTIFY: триггер в базе шлёт
// уведомление при каждой записи, переносе и отмене приёма, поэтому
// события приходят независимо от того, какой инстанс сервиса внёс
// изменение
type Hub struct {
	listener *pq.Listener
	logger   Logger

	mu   sync.RWMutex
	subs map[int64]map[chan Event]struct{} // doctorID -> подписчики
}

// NewHub создает hub поверх выделенного LISTEN соединения
func NewHub(dsn string, logger Logger) *Hub {
	h := &Hub{
		logger: logger,
		subs:   make(map[int64]map[chan Event]struct{}),
	}

	h.listener = pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				logger.Warn("Hub: listener event=%d: %v", event, err)
			}
		})

	return h
}

// Run слушает NOTIFY канал и рассылает события до отмены контекста
func (h *Hub) Run(ctx context.Context) error {
	if err := h.listener.Listen(channelAppointmentsChanged); err != nil {
		return err
	}
	h.logger.Info("Hub: listening on channel %q", channelAppointmentsChanged)

	defer h.listener.Close()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Hub: stopped")
			return ctx.Err()

		case n := <-h.listener.Notify:
			// nil приходит при переподключении - события могли потеряться,
			// подписчики переразрешат доступность при следующем событии
			if n == nil {
				h.logger.Warn("Hub: connection re-established, notifications may have been lost")
				continue
			}

			var ev Event
			if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
				h.logger.Warn("Hub: malformed notification payload %q: %v", n.Extra, err)
				continue
			}
			h.broadcast(ev)

		case <-time.After(pingInterval):
			if err := h.listener.Ping(); err != nil {
				h.logger.Error("Hub: ping failed: %v", err)
			}
		}
	}
}

// Subscribe подписывает на события по врачу.
// Возвращённую функцию нужно вызвать для отписки
func (h *Hub) Subscribe(doctorID int64) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[doctorID] == nil {
		h.subs[doctorID] = make(map[chan Event]struct{})
	}
	h.subs[doctorID][ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		delete(h.subs[doctorID], ch)
		if len(h.subs[doctorID]) == 0 {
			delete(h.subs, doctorID)
		}
		h.mu.Unlock()
	}

	return ch, unsubscribe
}

// broadcast рассылает событие подписчикам врача
func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[ev.DoctorID] {
		select {
		case ch <- ev:
		default:
			// переполненный подписчик пропускает событие
		}
	}
}
