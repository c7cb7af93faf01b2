package identity_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/docman/internal/identity"
	"github.com/JaimeStill/docman/internal/users"
)

const secret = "0123456789abcdef0123456789abcdef"

func testConfig(t *testing.T) *identity.Config {
	t.Helper()
	cfg := &identity.Config{Secret: secret, Issuer: "docman"}
	require.NoError(t, cfg.Finalize(nil))
	return cfg
}

func sign(t *testing.T, key string, claims identity.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims(sub uuid.UUID, role string) identity.Claims {
	return identity.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.String(),
			Issuer:    "docman",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVerifier_Verify(t *testing.T) {
	v := identity.NewVerifier(testConfig(t))
	uid := uuid.New()

	id, err := v.Verify(sign(t, secret, validClaims(uid, "Admin")))
	require.NoError(t, err)
	assert.Equal(t, uid, id.UserID)
	assert.Equal(t, users.RoleAdmin, id.Role)
}

func TestVerifier_Rejects(t *testing.T) {
	v := identity.NewVerifier(testConfig(t))
	uid := uuid.New()

	expired := validClaims(uid, "User")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := validClaims(uid, "User")
	wrongIssuer.Issuer = "someone-else"

	badSubject := validClaims(uid, "User")
	badSubject.Subject = "alice"

	tests := []struct {
		name  string
		token string
	}{
		{"wrong key", sign(t, "ffffffffffffffffffffffffffffffff", validClaims(uid, "User"))},
		{"expired", sign(t, secret, expired)},
		{"issuer", sign(t, secret, wrongIssuer)},
		{"subject", sign(t, secret, badSubject)},
		{"role", sign(t, secret, validClaims(uid, "root"))},
		{"garbage", "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, identity.ErrInvalidToken)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	v := identity.NewVerifier(testConfig(t))
	uid := uuid.New()

	var got identity.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = identity.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := identity.Authenticate(v, discard())(next)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, secret, validClaims(uid, "User")))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uid, got.UserID)
		assert.Equal(t, users.RoleUser, got.Role)
	})
}

func TestRequireAdmin(t *testing.T) {
	handler := identity.RequireAdmin(discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name string
		id   *identity.Identity
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"user", &identity.Identity{UserID: uuid.New(), Role: users.RoleUser}, http.StatusForbidden},
		{"admin", &identity.Identity{UserID: uuid.New(), Role: users.RoleAdmin}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/users", nil)
			if tt.id != nil {
				req = req.WithContext(identity.WithIdentity(req.Context(), *tt.id))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestConfig_Finalize_ShortSecret(t *testing.T) {
	cfg := &identity.Config{Secret: "short"}
	assert.Error(t, cfg.Finalize(nil))
}
