package notify

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/officevault/backend/internal/models"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestSessionFromToken(t *testing.T) {
	userID := uuid.New()
	raw := sign(t, jwt.MapClaims{
		"sub":  userID.String(),
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	session, err := sessionFromToken(raw, testSecret)
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if session.UserID != userID || session.Role != models.RoleAdmin {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestSessionFromTokenRejectsBadInput(t *testing.T) {
	valid := jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": "employee",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}

	cases := []struct {
		name   string
		raw    string
		secret string
	}{
		{"empty token", "", testSecret},
		{"garbage token", "not-a-jwt", testSecret},
		{"wrong secret", sign(t, valid, "other"), testSecret},
		{"expired", sign(t, jwt.MapClaims{
			"sub": uuid.NewString(), "role": "employee",
			"exp": time.Now().Add(-time.Minute).Unix(),
		}, testSecret), testSecret},
		{"missing sub", sign(t, jwt.MapClaims{
			"role": "employee", "exp": time.Now().Add(time.Hour).Unix(),
		}, testSecret), testSecret},
		{"unknown role", sign(t, jwt.MapClaims{
			"sub": uuid.NewString(), "role": "superuser",
			"exp": time.Now().Add(time.Hour).Unix(),
		}, testSecret), testSecret},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := sessionFromToken(tc.raw, tc.secret); err == nil {
				t.Fatal("expected rejection")
			}
		})
	}
}
