package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey int

const (
	sessionIDKey contextKey = iota
	adminSubjectKey
)

type SessionOptions struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// SessionMiddleware makes sure every request carries a session id cookie.
// Anything that is not a UUID is replaced with a fresh id.
func SessionMiddleware(opts SessionOptions) func(http.Handler) http.Handler {
	if opts.CookieName == "" {
		opts.CookieName = "sid"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if c, err := r.Cookie(opts.CookieName); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					sid = c.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     opts.CookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(opts.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromContext(ctx context.Context) string {
	if sid, ok := ctx.Value(sessionIDKey).(string); ok {
		return sid
	}
	return ""
}

// AdminAuth accepts HS256 bearer tokens signed by the hosted auth provider
// whose role claim equals role.
func AdminAuth(secret, role string) func(http.Handler) http.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(key) == 0 {
				respondError(w, http.StatusServiceUnavailable, "admin_disabled", "admin access is not configured")
				return
			}

			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err != nil {
				code := "invalid_token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					code = "token_expired"
				}
				respondError(w, http.StatusUnauthorized, code, "invalid or expired token")
				return
			}

			if got, _ := claims["role"].(string); got != role {
				respondError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}

			sub, _ := claims.GetSubject()
			ctx := context.WithValue(r.Context(), adminSubjectKey, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminSubjectFromContext(ctx context.Context) string {
	if sub, ok := ctx.Value(adminSubjectKey).(string); ok {
		return sub
	}
	return ""
}
