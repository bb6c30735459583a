package auth

import (
	"context"
	"fmt"
	"net/http"

	"batch-calculator/internal/logger"
)

type contextKey struct{}

// userIDKey ключ контекста с ID владельца запроса
var userIDKey = contextKey{}

// AuthMiddleware пропускает к обработчикам пакетов только запросы с действующим токеном
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := ExtractTokenFromHeader(r)
		if err != nil {
			http.Error(w, "Не авторизован: "+err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := ValidateToken(tokenString)
		if err != nil {
			logger.LogINFO(fmt.Sprintf("Rejected token for %s %s: %v", r.Method, r.URL.Path, err))
			http.Error(w, "Не авторизован: "+err.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
	})
}

// WithUserID кладёт ID пользователя в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext достаёт ID пользователя, положенный AuthMiddleware
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok && userID > 0
}

// RequireAuth возвращает ID пользователя аутентифицированного запроса
func RequireAuth(r *http.Request) (int64, error) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
