package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ad4rshS/am-zone/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	user := &models.User{
		ID:    "u-1",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  models.RoleAdmin,
	}

	token, err := svc.SignToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "Test User", claims.Name)
}

func TestVerifyToken_Invalid(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService("other-secret", time.Hour)
		token, err := other.SignToken(&models.User{ID: "u-1"})
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		short := NewService("test-secret", -time.Minute)
		token, err := short.SignToken(&models.User{ID: "u-1"})
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.Error(t, err)
	})
}

func TestTokenDefaultsRole(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.SignToken(&models.User{ID: "u-2", Email: "x@example.com"})
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestAuthenticatorMiddleware(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := FromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", claims.UserID)
		w.WriteHeader(http.StatusOK)
	})
	handler := svc.Authenticator(next)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches handler", func(t *testing.T) {
		token, err := svc.SignToken(&models.User{ID: "u-1", Role: models.RoleUser})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u-1", rec.Header().Get("X-User"))
	})
}

func TestRequireAdmin(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := svc.Authenticator(RequireAdmin(next))

	t.Run("plain user is forbidden", func(t *testing.T) {
		token, err := svc.SignToken(&models.User{ID: "u-1", Role: models.RoleUser})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		token, err := svc.SignToken(&models.User{ID: "a-1", Role: models.RoleAdmin})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
