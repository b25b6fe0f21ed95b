package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aivahomes/realty-ai-platform/internal/admin"
	"github.com/aivahomes/realty-ai-platform/internal/assistant"
	"github.com/aivahomes/realty-ai-platform/internal/callbacks"
	httpmiddleware "github.com/aivahomes/realty-ai-platform/internal/http/middleware"
	"github.com/aivahomes/realty-ai-platform/internal/leads"
	"github.com/aivahomes/realty-ai-platform/internal/voice"
	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger           *logging.Logger
	AssistantHandler *assistant.Handler
	LeadsHandler     *leads.Handler
	CallbacksHandler *callbacks.Handler
	VoiceHandler     *voice.Handler
	AdminDashboard   *admin.DashboardHandler
	MetricsHandler   http.Handler

	DispatchSecret     string
	AdminAuthSecret    string
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)

		if cfg.AssistantHandler != nil {
			public.Post("/api/chat", cfg.AssistantHandler.Chat)
			public.Post("/api/documents/analyze", cfg.AssistantHandler.AnalyzeDocument)
		}
		if cfg.LeadsHandler != nil {
			public.Post("/api/leads", cfg.LeadsHandler.CreateLead)
		}
		if cfg.CallbacksHandler != nil {
			public.Post("/api/callbacks", cfg.CallbacksHandler.Schedule)
			public.With(httpmiddleware.DispatchSecret(cfg.DispatchSecret)).
				Post("/api/callbacks/dispatch", cfg.CallbacksHandler.Dispatch)
		}
		if cfg.VoiceHandler != nil {
			public.Post("/api/voice/web-call", cfg.VoiceHandler.CreateWebCall)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin routes (protected by JWT)
	r.Route("/admin", func(adminRouter chi.Router) {
		adminRouter.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		if cfg.LeadsHandler != nil {
			adminRouter.Get("/leads", cfg.LeadsHandler.ListLeads)
		}
		if cfg.CallbacksHandler != nil {
			adminRouter.Get("/callbacks", cfg.CallbacksHandler.List)
		}
		if cfg.AdminDashboard != nil {
			adminRouter.Get("/dashboard", cfg.AdminDashboard.GetOverview)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
