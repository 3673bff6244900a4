package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pontaj-api/internal/auth"
)

// TokenParser проверяет токен и возвращает id пользователя
type TokenParser interface {
	Parse(token string) (string, error)
}

// Auth пропускает только запросы с действительным Bearer-токеном и кладёт
// id пользователя в контекст
func Auth(parser TokenParser, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "authorization header required")
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				unauthorized(w, "authorization header format must be Bearer {token}")
				return
			}

			userID, err := parser.Parse(strings.TrimSpace(token))
			if err != nil {
				logger.Warn("invalid token",
					slog.Any("error", err),
					slog.String("path", r.URL.Path),
				)
				unauthorized(w, "invalid token")
				return
			}

			if info := requestInfoFrom(r.Context()); info != nil {
				info.userID = userID
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
