package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/kuowesley/securebank-technical-challenge/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// SetSessionCookie issues the session cookie with the attributes the
// browser must enforce: HttpOnly, SameSite=Strict, one hour.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(service.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie removes the session cookie on logout.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// SessionAuth resolves the session cookie into a user and rejects the
// request before any business logic runs when resolution fails. A sliding
// renewal re-issues the cookie so active users stay logged in.
func SessionAuth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, renewed, err := authService.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				switch err {
				case domain.ErrUnauthorized, domain.ErrSessionExpired:
				default:
					log.Printf("ERROR [middleware.SessionAuth] session resolution failed: %v", err)
				}
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if renewed {
				SetSessionCookie(w, cookie.Value)
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}
