package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aivahomes/realty-ai-platform/internal/callbacks"
	"github.com/aivahomes/realty-ai-platform/internal/leads"
	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.Default()
	store := callbacks.NewInMemoryStore()
	scheduler := callbacks.NewScheduler(store, nil, logger)
	dispatcher := callbacks.NewDispatcher(store, nil, nil, callbacks.DispatcherConfig{}, logger, nil)

	return New(&Config{
		Logger:           logger,
		LeadsHandler:     leads.NewHandler(leads.NewInMemoryRepository(), nil, logger),
		CallbacksHandler: callbacks.NewHandler(scheduler, dispatcher, store, logger),
		DispatchSecret:   "sweep-secret",
		AdminAuthSecret:  "admin-secret",
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestScheduleCallbackRoute(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(callbacks.ScheduleRequest{Phone: "555-123-4567"})
	req := httptest.NewRequest(http.MethodPost, "/api/callbacks", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestDispatchRequiresSecret(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/callbacks/dispatch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without secret, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/callbacks/dispatch", nil)
	req.Header.Set("X-Dispatch-Secret", "sweep-secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with secret, got %d", w.Code)
	}
}

func TestAdminRoutesRequireJWT(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	claims := jwt.RegisteredClaims{
		Subject:   "broker",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("admin-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
