package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

const (
	defaultBaseURL   = "https://api.retellai.com/v2"
	defaultUserAgent = "realty-voice-client/0.1"
)

// ErrNotConfigured means the voice provider credential is absent.
var ErrNotConfigured = errors.New("voice: API key is required")

// APIError is a non-success response from the voice provider. The body is
// retained for server-side diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("voice: provider returned status %d", e.StatusCode)
}

// Config controls how the voice client behaves.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	UserAgent  string
}

// Client wraps the voice-agent REST endpoints used for outbound calls.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// PhoneCallRequest describes an outbound call to place.
type PhoneCallRequest struct {
	AgentID          string            `json:"agent_id"`
	FromNumber       string            `json:"from_number"`
	ToNumber         string            `json:"to_number"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	DynamicVariables map[string]string `json:"dynamic_variables,omitempty"`
}

// Call is the provider's handle for a placed phone call.
type Call struct {
	CallID string `json:"call_id"`
}

// CreatePhoneCall places an outbound call through the voice agent.
func (c *Client) CreatePhoneCall(ctx context.Context, req PhoneCallRequest) (*Call, error) {
	if strings.TrimSpace(req.ToNumber) == "" {
		return nil, errors.New("voice: destination number is required")
	}
	data, err := c.post(ctx, "/create-phone-call", req)
	if err != nil {
		return nil, err
	}
	var call Call
	if err := json.Unmarshal(data, &call); err != nil {
		return nil, fmt.Errorf("voice: decode phone call response: %w", err)
	}
	if call.CallID == "" {
		return nil, errors.New("voice: provider returned no call id")
	}
	return &call, nil
}

// WebCallRequest describes a browser-embedded call session.
type WebCallRequest struct {
	AgentID          string            `json:"agent_id"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	DynamicVariables map[string]string `json:"dynamic_variables,omitempty"`
}

// WebCall is the provider's handle plus the client-side access token.
type WebCall struct {
	CallID      string `json:"call_id"`
	AccessToken string `json:"access_token"`
}

// CreateWebCall opens a web call session; no phone numbers are involved.
func (c *Client) CreateWebCall(ctx context.Context, req WebCallRequest) (*WebCall, error) {
	data, err := c.post(ctx, "/create-web-call", req)
	if err != nil {
		return nil, err
	}
	var call WebCall
	if err := json.Unmarshal(data, &call); err != nil {
		return nil, fmt.Errorf("voice: decode web call response: %w", err)
	}
	return &call, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("voice: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("voice: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voice: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("voice: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("voice provider call failed",
			"path", path,
			"status", resp.StatusCode,
			"body", string(data),
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
