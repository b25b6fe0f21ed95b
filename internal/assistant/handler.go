package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

// Handler exposes the chat and document-analysis endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the assistant HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse is the uniform client-facing shape for a chat turn.
type ChatResponse struct {
	Success   bool   `json:"success"`
	Reply     string `json:"reply,omitempty"`
	Complex   bool   `json:"complex"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

const genericApology = "I'm sorry, I'm having trouble answering right now. Please try again in a moment, or request a callback and an agent will reach out."

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Success: false, Message: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Success: false, Message: "session_id is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Success: false, Message: "message is required"})
		return
	}

	result, err := h.service.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		// Provider detail stays in the server logs; the visitor gets a
		// generic degraded response and can keep chatting.
		h.logger.Error("chat turn failed", "error", err, "session_id", req.SessionID)
		writeJSON(w, http.StatusOK, ChatResponse{
			Success:   false,
			Reply:     genericApology,
			SessionID: req.SessionID,
			Message:   "assistant temporarily unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Success:   true,
		Reply:     result.Reply,
		Complex:   result.Complex,
		SessionID: req.SessionID,
	})
}

// AnalyzeDocumentRequest is the POST /api/documents/analyze body.
type AnalyzeDocumentRequest struct {
	DocumentType string `json:"document_type"`
	Text         string `json:"text"`
}

// AnalyzeDocumentResponse carries the analysis plus token usage.
type AnalyzeDocumentResponse struct {
	Success  bool       `json:"success"`
	Analysis string     `json:"analysis,omitempty"`
	Usage    TokenUsage `json:"usage,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// AnalyzeDocument handles POST /api/documents/analyze.
func (h *Handler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AnalyzeDocumentResponse{Success: false, Message: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, AnalyzeDocumentResponse{Success: false, Message: "text is required"})
		return
	}

	result, err := h.service.AnalyzeDocument(r.Context(), DocumentType(req.DocumentType), req.Text)
	if err != nil {
		h.logger.Error("document analysis failed", "error", err, "document_type", req.DocumentType)
		status := http.StatusBadGateway
		if errors.Is(err, ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, AnalyzeDocumentResponse{Success: false, Message: "document analysis temporarily unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeDocumentResponse{
		Success:  true,
		Analysis: result.Analysis,
		Usage:    result.Usage,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
