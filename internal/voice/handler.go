package voice

import (
	"encoding/json"
	"net/http"

	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

// Handler exposes the web-call endpoint for the embedded site widget.
type Handler struct {
	client  *Client
	agentID string
	logger  *logging.Logger
}

// NewHandler creates the voice HTTP handler. client may be nil when the
// provider is unconfigured; requests then fail with 503.
func NewHandler(client *Client, agentID string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{client: client, agentID: agentID, logger: logger}
}

// WebCallResponse carries the provider handle and client access token.
type WebCallResponse struct {
	Success     bool   `json:"success"`
	CallID      string `json:"call_id,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	Message     string `json:"message,omitempty"`
}

// CreateWebCall handles POST /api/voice/web-call.
func (h *Handler) CreateWebCall(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.client == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(WebCallResponse{Success: false, Message: "voice calls are not available right now"})
		return
	}

	call, err := h.client.CreateWebCall(r.Context(), WebCallRequest{
		AgentID:  h.agentID,
		Metadata: map[string]string{"channel": "web"},
	})
	if err != nil {
		h.logger.Error("failed to create web call", "error", err)
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(WebCallResponse{Success: false, Message: "could not start a call, please try again"})
		return
	}

	json.NewEncoder(w).Encode(WebCallResponse{
		Success:     true,
		CallID:      call.CallID,
		AccessToken: call.AccessToken,
	})
}
