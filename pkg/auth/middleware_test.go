package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// mockAuthService is a mock implementation of AuthService for testing.
type mockAuthService struct {
	claims      *Claims
	token       string
	validateErr error
	subjectErr  error
}

func (m *mockAuthService) ValidateRequest(r *http.Request) (*Claims, string, error) {
	if m.validateErr != nil {
		return nil, "", m.validateErr
	}
	return m.claims, m.token, nil
}

func (m *mockAuthService) RequireSubject(claims *Claims) error {
	return m.subjectErr
}

func TestMiddleware_RequireAuth_Success(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
	mw := NewMiddleware(&mockAuthService{claims: claims, token: "test-token"}, true, zap.NewNop())

	var ctxClaims *Claims
	var ctxToken string
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		ctxClaims, _ = GetClaims(r.Context())
		ctxToken, _ = GetToken(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ctxClaims == nil || ctxClaims.Subject != "user-1" {
		t.Error("expected claims to be set in context")
	}
	if ctxToken != "test-token" {
		t.Errorf("expected token 'test-token' in context, got %q", ctxToken)
	}
}

func TestMiddleware_RequireAuth_Rejections(t *testing.T) {
	tests := []struct {
		name string
		svc  *mockAuthService
	}{
		{"invalid token", &mockAuthService{validateErr: ErrMissingAuthorization}},
		{"no subject", &mockAuthService{claims: &Claims{}, subjectErr: ErrMissingSubject}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewMiddleware(tt.svc, true, zap.NewNop())

			called := false
			handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))

			if called {
				t.Error("handler should not be called")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["error"] != "unauthorized" {
				t.Errorf("expected error 'unauthorized', got %q", body["error"])
			}
		})
	}
}

func TestMiddleware_RequireAuth_Disabled(t *testing.T) {
	mw := NewMiddleware(&mockAuthService{validateErr: ErrMissingAuthorization}, false, zap.NewNop())

	called := false
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := GetClaims(r.Context()); ok {
			t.Error("expected no claims when auth is disabled")
		}
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/test", nil))
	if !called {
		t.Error("expected handler to be called when auth is disabled")
	}
}
