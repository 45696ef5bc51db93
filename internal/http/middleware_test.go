package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sessionIDFromContext(r.Context())))
	})
}

func TestSessionMiddleware_ReplacesMalformedCookie(t *testing.T) {
	h := SessionMiddleware(SessionOptions{MaxAge: time.Hour, Secure: true})(echoSession())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc/passwd"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "../../etc/passwd", cookies[0].Value)
	assert.Equal(t, cookies[0].Value, rec.Body.String())
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestSessionMiddleware_PassesValidCookie(t *testing.T) {
	h := SessionMiddleware(SessionOptions{CookieName: "cart"})(echoSession())
	sid := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cart", Value: sid})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, sid, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestAdminAuth_RejectsOtherAlgorithms(t *testing.T) {
	h := AdminAuth(testSecret, adminRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"role": adminRole,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuth_RequiresExpiry(t *testing.T) {
	h := AdminAuth(testSecret, adminRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": adminRole})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuth_PutsSubjectInContext(t *testing.T) {
	var subject string
	h := AdminAuth(testSecret, adminRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = adminSubjectFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header = bearer(t, testSecret, adminRole)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "admin-1", subject)
}
