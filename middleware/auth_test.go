package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": 7,
		"role":    "scorer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthenticator(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + signTokenHelper(t, validClaims()), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signTokenWithSecret(t, "other-secret"), http.StatusUnauthorized},
		{"expired token", "Bearer " + signTokenHelper(t, jwt.MapClaims{
			"user_id": 7,
			"role":    "scorer",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}), http.StatusUnauthorized},
		{"missing claims", "Bearer " + signTokenHelper(t, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int
			var gotRole models.UserRole
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = GetUserIDFromContext(r.Context())
				gotRole, _ = GetUserRoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/scoreboards", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			Authenticator(testSecret)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotUserID != 7 {
					t.Errorf("user id in context = %d, want 7", gotUserID)
				}
				if gotRole != models.RoleScorer {
					t.Errorf("role in context = %q, want scorer", gotRole)
				}
			}
		})
	}
}

func signTokenHelper(t *testing.T, claims jwt.MapClaims) string {
	return signToken(t, testSecret, claims)
}

func signTokenWithSecret(t *testing.T, secret string) string {
	return signToken(t, secret, validClaims())
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin passes", "admin", http.StatusOK},
		{"scorer rejected", "scorer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := Authenticator(testSecret)(RequireAdmin(next))

			token := signToken(t, testSecret, jwt.MapClaims{
				"user_id": 1,
				"role":    tt.role,
				"exp":     time.Now().Add(time.Hour).Unix(),
			})
			req := httptest.NewRequest(http.MethodPost, "/players", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
