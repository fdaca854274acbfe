package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mrops-br/chaverito-api/internal/app/cart"
)

// SessionCookie is the name of the cookie identifying a shopper's cart
const SessionCookie = "chaverito_session"

// CartSession resolves the shopper session from its cookie, issuing a new
// one when absent or malformed, and places the session's cart store in
// the request context
func CartSession(sessions *cart.Sessions, secure bool, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(SessionCookie); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					sessionID = id.String()
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   30 * 24 * 60 * 60,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
				logger.DebugContext(r.Context(), "New cart session issued",
					slog.String("session_id", sessionID),
				)
			}

			store := sessions.Get(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(cart.WithStore(r.Context(), store)))
		})
	}
}
