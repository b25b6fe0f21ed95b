package callbacks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

// Handler exposes the callback scheduling, dispatch, and admin endpoints.
type Handler struct {
	scheduler  *Scheduler
	dispatcher *Dispatcher
	store      Store
	logger     *logging.Logger
}

// NewHandler creates the callbacks HTTP handler.
func NewHandler(scheduler *Scheduler, dispatcher *Dispatcher, store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		scheduler:  scheduler,
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// ScheduleResponse confirms a scheduled callback to the visitor.
type ScheduleResponse struct {
	Success      bool      `json:"success"`
	CallbackID   string    `json:"callback_id,omitempty"`
	ScheduledFor time.Time `json:"scheduled_for,omitempty"`
	Message      string    `json:"message,omitempty"`
}

// Schedule handles POST /api/callbacks.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ScheduleResponse{Success: false, Message: "invalid request body"})
		return
	}

	cb, err := h.scheduler.Schedule(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidPhone) {
			writeJSON(w, http.StatusBadRequest, ScheduleResponse{
				Success: false,
				Message: "please provide a valid phone number with area code",
			})
			return
		}
		h.logger.Error("failed to schedule callback", "error", err)
		writeJSON(w, http.StatusInternalServerError, ScheduleResponse{
			Success: false,
			Message: "could not schedule your callback, please try again",
		})
		return
	}

	writeJSON(w, http.StatusCreated, ScheduleResponse{
		Success:      true,
		CallbackID:   cb.ID.String(),
		ScheduledFor: cb.ScheduledFor,
		Message:      "AIVA will call you back shortly.",
	})
}

// DispatchResponse reports the outcome of a triggered sweep.
type DispatchResponse struct {
	Success   bool   `json:"success"`
	Processed int    `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// Dispatch handles POST /api/callbacks/dispatch. The route sits behind the
// shared-secret middleware; anything that reaches here is authorized.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	processed, err := h.dispatcher.Sweep(r.Context())
	if err != nil {
		h.logger.Error("dispatch sweep failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, DispatchResponse{Success: false, Message: "sweep failed"})
		return
	}
	writeJSON(w, http.StatusOK, DispatchResponse{Success: true, Processed: processed})
}

// ListResponse is the admin view of recent callbacks.
type ListResponse struct {
	Callbacks []*Callback `json:"callbacks"`
	Count     int         `json:"count"`
}

// List handles GET /admin/callbacks with optional status and limit filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	status := Status(r.URL.Query().Get("status"))

	callbacks, err := h.store.List(r.Context(), status, limit)
	if err != nil {
		h.logger.Error("failed to list callbacks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list callbacks"})
		return
	}
	if callbacks == nil {
		callbacks = []*Callback{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Callbacks: callbacks, Count: len(callbacks)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
