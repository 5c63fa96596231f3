package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValidator accepts tokens listed in subjects
type fakeValidator struct {
	subjects map[string]string
}

func (f *fakeValidator) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	subject, ok := f.subjects[token]
	if !ok {
		return nil, errors.New("signature is invalid")
	}
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: subject},
		CustomClaims:     &CustomClaims{Email: "owner@example.com"},
	}, nil
}

func newTestAuth(ownerSubject string) *AuthMiddleware {
	return NewAuthMiddlewareWithValidator(&fakeValidator{subjects: map[string]string{
		"owner-token":    "auth0|owner",
		"intruder-token": "auth0|intruder",
	}}, ownerSubject)
}

func serveAuth(t *testing.T, m *AuthMiddleware, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var subject string
	err := m.Authenticate()(func(c echo.Context) error {
		subject = GetAuth0ID(c)
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)
	return rec, subject
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tests := []struct {
		name        string
		owner       string
		header      string
		wantStatus  int
		wantSubject string
	}{
		{"missing header", "", "", http.StatusUnauthorized, ""},
		{"no bearer prefix", "", "owner-token", http.StatusUnauthorized, ""},
		{"wrong scheme", "", "Basic owner-token", http.StatusUnauthorized, ""},
		{"empty token", "", "Bearer ", http.StatusUnauthorized, ""},
		{"invalid token", "", "Bearer forged", http.StatusUnauthorized, ""},
		{"valid token", "", "Bearer owner-token", http.StatusOK, "auth0|owner"},
		{"lowercase scheme", "", "bearer owner-token", http.StatusOK, "auth0|owner"},
		{"owner restriction allows owner", "auth0|owner", "Bearer owner-token", http.StatusOK, "auth0|owner"},
		{"owner restriction rejects others", "auth0|owner", "Bearer intruder-token", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, subject := serveAuth(t, newTestAuth(tt.owner), tt.header)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantSubject, subject)
		})
	}
}

func TestAuthMiddleware_ProblemDetails(t *testing.T) {
	rec, _ := serveAuth(t, newTestAuth(""), "")

	var body problemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errorTypeUnauthorized, body.Type)
	assert.Equal(t, http.StatusUnauthorized, body.Status)
	assert.Equal(t, "/api/v1/contacts", body.Instance)
	assert.Equal(t, "missing authorization header", body.Detail)
}

func TestGetAuth0ID(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		setup    func(c echo.Context)
		expected string
	}{
		{
			name: "returns auth0 id when present",
			setup: func(c echo.Context) {
				ctx := context.WithValue(c.Request().Context(), Auth0IDKey, "auth0|12345")
				c.SetRequest(c.Request().WithContext(ctx))
			},
			expected: "auth0|12345",
		},
		{
			name:     "returns empty string when not present",
			setup:    func(c echo.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			tt.setup(c)

			result := GetAuth0ID(c)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetCustomClaims(t *testing.T) {
	e := echo.New()

	t.Run("returns custom claims when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		claims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|test"},
			CustomClaims:     &CustomClaims{Email: "test@example.com", Name: "Test User"},
		}
		ctx := context.WithValue(c.Request().Context(), ClaimsKey, claims)
		c.SetRequest(c.Request().WithContext(ctx))

		result := GetCustomClaims(c)
		if result == nil {
			t.Fatal("Expected custom claims, got nil")
		}
		if result.Email != "test@example.com" {
			t.Errorf("Expected email 'test@example.com', got %q", result.Email)
		}
		if GetClaims(c).RegisteredClaims.Subject != "auth0|test" {
			t.Error("Expected subject 'auth0|test'")
		}
	})

	t.Run("returns nil when claims not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if GetCustomClaims(c) != nil {
			t.Error("Expected nil, got custom claims")
		}
		if GetClaims(c) != nil {
			t.Error("Expected nil, got claims")
		}
	})
}
