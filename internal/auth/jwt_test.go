package auth

import (
	goerrors "errors"
	"testing"
	"time"

	"todo-stream.com/todo-stream/internal/errors"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret", "todo-stream-test", 15*time.Minute, 24*time.Hour)
}

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "alice")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestJWTManager_TokenTypesAreNotInterchangeable(t *testing.T) {
	m := newTestManager()

	refresh, err := m.GenerateRefreshToken("user-1", "alice")
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	if _, err := m.ValidateAccessToken(refresh); !goerrors.Is(err, errors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for refresh-as-access, got %v", err)
	}

	access, err := m.GenerateAccessToken("user-1", "alice")
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	if _, err := m.ValidateRefreshToken(access); !goerrors.Is(err, errors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for access-as-refresh, got %v", err)
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", "todo-stream-test", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "alice")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); !goerrors.Is(err, errors.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTManager_TamperedToken(t *testing.T) {
	m := newTestManager()
	other := NewJWTManager("other-secret", "todo-stream-test", 15*time.Minute, 24*time.Hour)

	token, err := other.GenerateAccessToken("user-1", "alice")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); !goerrors.Is(err, errors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}
