package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

const testSigningKey = "test-signing-key"

func mintToken(t *testing.T, key, sub, username, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":      sub,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func newAuthTestAPI() *API {
	return &API{config: Config{JWTSigningKey: testSigningKey}}
}

func echoUser(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok {
			w.Header().Set("X-User", user.Username)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatePassesAnonymous(t *testing.T) {
	a := newAuthTestAPI()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/clubs", nil)

	a.authenticate(echoUser(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User"))
}

func TestAuthenticateAttachesActingUser(t *testing.T) {
	a := newAuthTestAPI()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/clubs", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSigningKey, "u1", "alice", models.RoleAdmin))

	a.authenticate(echoUser(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Header().Get("X-User"))
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	a := newAuthTestAPI()

	for name, header := range map[string]string{
		"garbage":      "Bearer not.a.token",
		"wrong key":    "Bearer " + mintToken(t, "other-key", "u1", "alice", models.RoleAdmin),
		"wrong scheme": "Basic abc",
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/clubs", nil)
			req.Header.Set("Authorization", header)

			a.authenticate(echoUser(t)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	a := newAuthTestAPI()
	claims := jwt.MapClaims{
		"sub":      "u1",
		"username": "alice",
		"role":     models.RoleAdmin,
		"exp":      time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/clubs", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	a.authenticate(echoUser(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	a := newAuthTestAPI()

	serve := func(t *testing.T, gate func(http.Handler) http.Handler, token string) int {
		t.Helper()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		a.authenticate(gate(echoUser(t))).ServeHTTP(rec, req)
		return rec.Code
	}

	write := a.requireRoles(models.RoleAdmin, models.RoleChairman)
	read := a.requireRoles(models.RoleAdmin, models.RoleChairman, models.RolePublic, models.RoleReadOnly)

	t.Run("anonymous blocked from write", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(t, write, ""))
	})
	t.Run("readonly blocked from write", func(t *testing.T) {
		token := mintToken(t, testSigningKey, "u1", "bob", models.RoleReadOnly)
		assert.Equal(t, http.StatusForbidden, serve(t, write, token))
	})
	t.Run("chairman allowed to write", func(t *testing.T) {
		token := mintToken(t, testSigningKey, "u1", "carol", models.RoleChairman)
		assert.Equal(t, http.StatusOK, serve(t, write, token))
	})
	t.Run("anonymous allowed on public read", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(t, read, ""))
	})
}
