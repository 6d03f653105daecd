package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/carewell/CW-AppointmentService/internal/api/handlers"
	"github.com/carewell/CW-AppointmentService/internal/domain"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"

	// HeaderUserID содержит ID аутентифицированного пользователя,
	// проставляется API gateway после проверки токена
	HeaderUserID = "X-User-ID"

	// HeaderUserRole содержит роль пользователя: patient, doctor или admin
	HeaderUserRole = "X-User-Role"
)

// Auth middleware извлекает ID и роль пользователя из заголовков.
// Запросы без корректного X-User-ID отклоняются с 401.
// Отсутствующая роль трактуется как patient - роли врача и админа
// gateway проставляет явно
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+HeaderUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок "+HeaderUserID)
			return
		}

		role := domain.ActorRole(r.Header.Get(HeaderUserRole))
		switch role {
		case domain.RolePatient, domain.RoleDoctor, domain.RoleAdmin:
		case "":
			role = domain.RolePatient
		default:
			handlers.RespondUnauthorized(w, "некорректный заголовок "+HeaderUserRole)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetUserRole извлекает роль пользователя из контекста
func GetUserRole(ctx context.Context) (domain.ActorRole, bool) {
	role, ok := ctx.Value(userRoleKey).(domain.ActorRole)
	return role, ok
}
