package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doctor-booking/config"
	"doctor-booking/internal/domain/entity"
	"doctor-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSMiddleware(t *testing.T) {
	t.Run("restricted origins", func(t *testing.T) {
		h := NewCORSMiddleware("https://clinic.example").Handle(ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://clinic.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "https://clinic.example", rec.Header().Get("Access-Control-Allow-Origin"))

		req.Header.Set("Origin", "https://evil.example")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewCORSMiddleware().Handle(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := jwt.NewJWTService(config.JWTConfig{Secret: "secret"})
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	userID := uuid.New()
	var seen uuid.UUID
	h := NewAuthMiddleware(tokens, client).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	call := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	token, err := tokens.GenerateAccessToken(userID, entity.RoleIDPatient, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("Token "+token))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer not-a-jwt"))
	assert.Equal(t, http.StatusOK, call("Bearer "+token))
	assert.Equal(t, userID, seen)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, mr.Set(RevokedTokenKeyPrefix+claims.TokenID, "1"))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+token))
}

func TestRequireScheduleOwner(t *testing.T) {
	doctorID := uuid.New()
	router := mux.NewRouter()
	router.Handle("/doctors/{doctorId}", RequireScheduleOwner(ok))

	call := func(userID uuid.UUID, roleID int) int {
		req := httptest.NewRequest(http.MethodGet, "/doctors/"+doctorID.String(), nil)
		req = req.WithContext(WithIdentity(req.Context(), userID, roleID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call(doctorID, entity.RoleIDDoctor))
	assert.Equal(t, http.StatusOK, call(uuid.New(), entity.RoleIDAdmin))
	assert.Equal(t, http.StatusForbidden, call(uuid.New(), entity.RoleIDDoctor))
	assert.Equal(t, http.StatusForbidden, call(doctorID, entity.RoleIDPatient))
}
