package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

func TestGetOverview(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads WHERE created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT source, COUNT\(\*\) FROM leads GROUP BY source`).
		WillReturnRows(sqlmock.NewRows([]string{"source", "count"}).
			AddRow("chat", 25).
			AddRow("callback", 10))
	mock.ExpectQuery(`FROM scheduled_callbacks`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "completed", "failed", "this_week"}).
			AddRow(12, 3, 8, 1, 5))

	handler := NewDashboardHandler(db, logging.Default())
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	w := httptest.NewRecorder()

	handler.GetOverview(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp DashboardResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Leads.Total != 42 || resp.Leads.NewThisWeek != 7 {
		t.Errorf("unexpected lead metrics: %+v", resp.Leads)
	}
	if len(resp.Leads.TopSources) != 2 || resp.Leads.TopSources[0].Source != "chat" {
		t.Errorf("unexpected top sources: %+v", resp.Leads.TopSources)
	}
	if resp.Callbacks.Completed != 8 || resp.Callbacks.Failed != 1 {
		t.Errorf("unexpected callback metrics: %+v", resp.Callbacks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetOverview_NoDatabase(t *testing.T) {
	handler := NewDashboardHandler(nil, logging.Default())
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	w := httptest.NewRecorder()

	handler.GetOverview(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}
