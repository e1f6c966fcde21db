package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgurov/talentflow/internal/candidate/models"
)

func TestHTTPMiddleware(t *testing.T) {
	const (
		validSecret   = "test-secret"
		invalidSecret = "wrong-secret"
	)

	// Helper to generate test tokens with arbitrary claims
	signToken := func(secret string, claims jwt.MapClaims) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, _ := token.SignedString([]byte(secret))
		return tokenString
	}

	validClaims := jwt.MapClaims{
		"sub":       "u1",
		"tenant_id": "t1",
		"role":      "RECRUITER",
		"exp":       time.Now().Add(1 * time.Hour).Unix(),
	}

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "protected path valid token",
			path:       "/v1/candidates",
			authHeader: "Bearer " + signToken(validSecret, validClaims),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "unprotected path without token",
			path:       "/health",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "protected path missing token",
			path:       "/v1/candidates",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "protected path malformed header",
			path:       "/v1/candidates",
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "protected path wrong secret",
			path:       "/v1/candidates",
			authHeader: "Bearer " + signToken(invalidSecret, validClaims),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "protected path expired token",
			path: "/v1/candidates",
			authHeader: "Bearer " + signToken(validSecret, jwt.MapClaims{
				"sub":       "u1",
				"tenant_id": "t1",
				"role":      "RECRUITER",
				"exp":       time.Now().Add(-1 * time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "protected path missing tenant claim",
			path: "/v1/candidates",
			authHeader: "Bearer " + signToken(validSecret, jwt.MapClaims{
				"sub":  "u1",
				"role": "RECRUITER",
				"exp":  time.Now().Add(1 * time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "protected path unknown role",
			path: "/v1/candidates",
			authHeader: "Bearer " + signToken(validSecret, jwt.MapClaims{
				"sub":       "u1",
				"tenant_id": "t1",
				"role":      "SUPERUSER",
				"exp":       time.Now().Add(1 * time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest("GET", tt.path, nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			HTTPMiddleware(next, validSecret).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}

// TestHTTPMiddleware_IdentityInContext verifies the middleware exposes the
// full caller identity to downstream handlers.
func TestHTTPMiddleware_IdentityInContext(t *testing.T) {
	const secret = "test-secret"
	token, err := GenerateToken("u7", "t3", models.RoleAdmin, secret)
	require.NoError(t, err)

	var got models.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok, "identity should be present on protected routes")
		got = identity
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest("GET", "/v1/candidates", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	HTTPMiddleware(next, secret).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Identity{ID: "u7", TenantID: "t3", Role: models.RoleAdmin}, got)
}

func TestIdentityFromContext_Missing(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/candidates", nil)
	_, ok := IdentityFromContext(r.Context())
	assert.False(t, ok)
}
