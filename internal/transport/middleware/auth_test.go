package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/pkg/ctxutil"
)

type tokenValidatorStub struct {
	learnerID uuid.UUID
	err       error
	gotToken  string
}

func (s *tokenValidatorStub) ValidateAccessToken(token string) (uuid.UUID, error) {
	s.gotToken = token
	return s.learnerID, s.err
}

func TestAuth_ValidToken(t *testing.T) {
	learnerID := uuid.New()
	validator := &tokenValidatorStub{learnerID: learnerID}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := ctxutil.LearnerIDFromCtx(r.Context())
		if !ok {
			t.Error("expected learner ID in context")
		}
		if got != learnerID {
			t.Errorf("learner ID = %s, want %s", got, learnerID)
		}
		w.WriteHeader(http.StatusOK)
	})

	wrapped := Auth(validator)(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if validator.gotToken != "token-123" {
		t.Errorf("validator received %q, want %q", validator.gotToken, "token-123")
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	validator := &tokenValidatorStub{err: errors.New("bad token")}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called for an invalid token")
	})

	wrapped := Auth(validator)(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_NoToken_PassesAnonymous(t *testing.T) {
	validator := &tokenValidatorStub{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.LearnerIDFromCtx(r.Context()); ok {
			t.Error("expected no learner ID for anonymous request")
		}
		w.WriteHeader(http.StatusOK)
	})

	wrapped := Auth(validator)(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if validator.gotToken != "" {
		t.Errorf("validator called with %q, want no call", validator.gotToken)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	validator := &tokenValidatorStub{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	wrapped := Auth(validator)(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	// Non-Bearer schemes are treated as anonymous, not rejected.
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if validator.gotToken != "" {
		t.Errorf("validator called with %q, want no call", validator.gotToken)
	}
}
