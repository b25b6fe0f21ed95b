package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestDispatchSecret_ValidSecret(t *testing.T) {
	handler := DispatchSecret("s3cret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/callbacks/dispatch", nil)
	req.Header.Set(DispatchSecretHeader, "s3cret")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestDispatchSecret_WrongSecret(t *testing.T) {
	handler := DispatchSecret("s3cret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/callbacks/dispatch", nil)
	req.Header.Set(DispatchSecretHeader, "guess")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestDispatchSecret_MissingHeader(t *testing.T) {
	handler := DispatchSecret("s3cret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/callbacks/dispatch", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestDispatchSecret_UnconfiguredAllowsAll(t *testing.T) {
	handler := DispatchSecret("")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/callbacks/dispatch", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 when no secret is configured, got %d", w.Code)
	}
}
