package admin

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

// DashboardHandler serves the brokerage overview endpoint. It reads straight
// from the database; reporting queries don't go through the repositories.
type DashboardHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(db *sql.DB, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{db: db, logger: logger}
}

// DashboardResponse contains the main dashboard metrics.
type DashboardResponse struct {
	Period    string          `json:"period"`
	Leads     LeadMetrics     `json:"leads"`
	Callbacks CallbackMetrics `json:"callbacks"`
}

// LeadMetrics contains lead-related dashboard metrics.
type LeadMetrics struct {
	Total       int         `json:"total"`
	NewThisWeek int         `json:"new_this_week"`
	TopSources  []SourceRow `json:"top_sources,omitempty"`
}

// SourceRow is one lead channel with its count.
type SourceRow struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// CallbackMetrics contains the callback dispatch funnel.
type CallbackMetrics struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	ThisWeek  int `json:"this_week"`
}

// GetOverview returns the main dashboard overview.
// GET /admin/dashboard
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		http.Error(w, "reporting database not configured", http.StatusServiceUnavailable)
		return
	}

	dashboard := DashboardResponse{Period: "week"}
	now := time.Now().UTC()
	weekAgo := now.AddDate(0, 0, -7)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM leads`,
	).Scan(&dashboard.Leads.Total)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM leads WHERE created_at >= $1`, weekAgo,
	).Scan(&dashboard.Leads.NewThisWeek)

	rows, err := h.db.QueryContext(r.Context(),
		`SELECT source, COUNT(*) FROM leads GROUP BY source ORDER BY COUNT(*) DESC LIMIT 5`)
	if err != nil {
		h.logger.Error("dashboard: lead source query failed", "error", err)
	} else {
		defer rows.Close()
		for rows.Next() {
			var row SourceRow
			if err := rows.Scan(&row.Source, &row.Count); err != nil {
				h.logger.Error("dashboard: lead source scan failed", "error", err)
				break
			}
			dashboard.Leads.TopSources = append(dashboard.Leads.TopSources, row)
		}
	}

	h.db.QueryRowContext(r.Context(),
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*) FILTER (WHERE created_at >= $1)
		FROM scheduled_callbacks`, weekAgo,
	).Scan(
		&dashboard.Callbacks.Total,
		&dashboard.Callbacks.Pending,
		&dashboard.Callbacks.Completed,
		&dashboard.Callbacks.Failed,
		&dashboard.Callbacks.ThisWeek,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dashboard)
}
