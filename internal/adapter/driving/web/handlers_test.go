package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

type fakeReports struct {
	report    *entity.AggregatedReport
	err       error
	budgets   []entity.BudgetInfo
	exportDir string
	ranges    []entity.DateRange
	displayed int
}

func (f *fakeReports) GenerateReport(ctx context.Context, dateRange entity.DateRange) (*entity.AggregatedReport, error) {
	f.ranges = append(f.ranges, dateRange)
	return f.report, f.err
}

func (f *fakeReports) DisplayReport(report *entity.AggregatedReport) {
	f.displayed++
}

func (f *fakeReports) ExportReport(report *entity.AggregatedReport, reportTypes []string, reportName, dir string) ([]string, error) {
	path := filepath.Join(f.exportDir, reportName+"."+reportTypes[0])
	if err := os.WriteFile(path, []byte("Service,2024-03-01\nAmazon EC2,120.00\n"), 0600); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func (f *fakeReports) GetBudgets(ctx context.Context) []entity.BudgetInfo {
	return f.budgets
}

type silentConsole struct {
	errors []string
}

func (c *silentConsole) Print(a ...interface{})                     {}
func (c *silentConsole) Printf(format string, a ...interface{})     {}
func (c *silentConsole) Println(a ...interface{})                   {}
func (c *silentConsole) LogInfo(format string, a ...interface{})    {}
func (c *silentConsole) LogWarning(format string, a ...interface{}) {}
func (c *silentConsole) LogSuccess(format string, a ...interface{}) {}
func (c *silentConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}
func (c *silentConsole) Status(message string) types.StatusHandle                     { return nil }
func (c *silentConsole) CreateTable() types.TableInterface                            { return nil }
func (c *silentConsole) DisplayServiceBars(title string, slices []types.ServiceShare) {}

func sampleReport() *entity.AggregatedReport {
	return &entity.AggregatedReport{
		Start:   "2024-03-01",
		End:     "2024-04-01",
		Periods: []entity.BillingPeriod{{Start: "2024-03-01", End: "2024-04-01"}},
		Columns: []entity.ReportColumn{
			{Name: "Amazon Elastic Compute Cloud - Compute", Values: []decimal.Decimal{decimal.NewFromInt(1234)}},
			{Name: "Amazon Relational Database Service", Values: []decimal.Decimal{decimal.NewFromInt(80)}},
			{Name: "Others", Values: []decimal.Decimal{decimal.RequireFromString("0.5")}, Others: true},
		},
	}
}

func newTestServer(t *testing.T, reports *fakeReports) (*Server, *silentConsole) {
	t.Helper()
	console := &silentConsole{}
	settings := types.DefaultSettings()
	settings.Dir = t.TempDir()
	srv := NewServer(reports, console, settings, "123456789012")
	srv.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	return srv, console
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndex_AwaitingSubmission(t *testing.T) {
	reports := &fakeReports{}
	srv, _ := newTestServer(t, reports)

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		dashboardTitle,
		`value="2024-04-01"`,
		`value="2024-05-01"`,
		`max="2024-05-10"`,
		"Select a reporting period",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "<iframe") {
		t.Error("expected no chart before the form is submitted")
	}
	if len(reports.ranges) != 0 {
		t.Errorf("expected no billing query, got %d", len(reports.ranges))
	}
}

func TestIndex_InvalidRange(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"end before start", "?start=2024-03-10&end=2024-03-01", types.ErrInvalidDateRange.Error()},
		{"equal dates", "?start=2024-03-01&end=2024-03-01", types.ErrInvalidDateRange.Error()},
		{"future date", "?start=2024-05-01&end=2024-06-01", types.ErrDateInFuture.Error()},
		{"missing end", "?start=2024-03-01", "invalid date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := &fakeReports{}
			srv, _ := newTestServer(t, reports)

			rec := get(t, srv, "/"+tt.query)
			body := rec.Body.String()
			if !strings.Contains(body, "Invalid range") || !strings.Contains(body, tt.want) {
				t.Errorf("expected invalid range placeholder with %q, got %s", tt.want, body)
			}
			if strings.Contains(body, "<iframe") {
				t.Error("expected no chart for an invalid range")
			}
			if len(reports.ranges) != 0 {
				t.Errorf("expected no billing query, got %d", len(reports.ranges))
			}
		})
	}
}

func TestIndex_ValidRangeEmbedsChart(t *testing.T) {
	reports := &fakeReports{}
	srv, _ := newTestServer(t, reports)

	rec := get(t, srv, "/?start=2024-03-01&end=2024-04-01")
	body := rec.Body.String()

	if !strings.Contains(body, `<iframe src="/chart?end=2024-04-01&amp;start=2024-03-01"`) {
		t.Errorf("expected chart frame for the submitted range, got %s", body)
	}
	for _, format := range []string{"csv", "json", "pdf"} {
		if !strings.Contains(body, "format="+format) {
			t.Errorf("expected %s export link", format)
		}
	}
	if len(reports.ranges) != 0 {
		t.Error("expected the index page to leave the billing query to the chart frame")
	}
}

func TestIndex_Budgets(t *testing.T) {
	reports := &fakeReports{budgets: []entity.BudgetInfo{{
		Name:     "monthly",
		Limit:    decimal.NewFromInt(100),
		Actual:   decimal.NewFromInt(150),
		Forecast: decimal.NewFromInt(180),
	}}}
	srv, _ := newTestServer(t, reports)

	if body := get(t, srv, "/").Body.String(); strings.Contains(body, "monthly") {
		t.Error("expected budgets to stay hidden unless enabled")
	}

	srv.settings.ShowBudgets = true
	body := get(t, srv, "/").Body.String()
	for _, want := range []string{"Budgets", "monthly", "$100.00", "150.0%", `class="over"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected budgets table to contain %q", want)
		}
	}
}

func TestChart_RendersPie(t *testing.T) {
	reports := &fakeReports{report: sampleReport()}
	srv, _ := newTestServer(t, reports)

	rec := get(t, srv, "/chart?start=2024-03-01&end=2024-04-01")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"Cost by Service: 2024-03-01 - 2024-04-01",
		"Amazon Elastic Compute Cloud - Compute",
		"Amazon Relational Database Service",
		"Others",
		"toPrecision(2)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected chart to contain %q", want)
		}
	}

	if len(reports.ranges) != 1 {
		t.Fatalf("expected exactly one billing query, got %d", len(reports.ranges))
	}
	if got := reports.ranges[0].String(); got != "2024-03-01 - 2024-04-01" {
		t.Errorf("unexpected queried range %s", got)
	}
	if reports.displayed != 1 {
		t.Errorf("expected the report to be logged once, got %d", reports.displayed)
	}
}

func TestChart_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantBody   string
		wantCalls  int
	}{
		{
			name:       "invalid range",
			query:      "?start=2024-04-01&end=2024-03-01",
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid range",
		},
		{
			name:       "no data",
			query:      "?start=2024-03-01&end=2024-04-01",
			err:        types.ErrNoData,
			wantStatus: http.StatusOK,
			wantBody:   "No cost data for 2024-03-01 - 2024-04-01",
			wantCalls:  1,
		},
		{
			name:       "billing API failure",
			query:      "?start=2024-03-01&end=2024-04-01",
			err:        errors.New("AccessDeniedException"),
			wantStatus: http.StatusBadGateway,
			wantBody:   "Unable to load cost data: AccessDeniedException",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := &fakeReports{err: tt.err}
			srv, _ := newTestServer(t, reports)

			rec := get(t, srv, "/chart"+tt.query)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %q, got %s", tt.wantBody, rec.Body.String())
			}
			if len(reports.ranges) != tt.wantCalls {
				t.Errorf("expected %d billing queries, got %d", tt.wantCalls, len(reports.ranges))
			}
			if reports.displayed != 0 {
				t.Error("expected nothing to be displayed on failure")
			}
		})
	}
}

func TestExport(t *testing.T) {
	reports := &fakeReports{report: sampleReport(), exportDir: t.TempDir()}
	srv, _ := newTestServer(t, reports)

	rec := get(t, srv, "/export?start=2024-03-01&end=2024-04-01&format=CSV")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	disposition := rec.Header().Get("Content-Disposition")
	if disposition != `attachment; filename="aws-cost-report_2024-03-01_2024-04-01.csv"` {
		t.Errorf("unexpected Content-Disposition %q", disposition)
	}
	if !strings.Contains(rec.Body.String(), "Amazon EC2,120.00") {
		t.Errorf("expected exported file content, got %s", rec.Body.String())
	}
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
	}{
		{"invalid range", "?start=2024-03-01&end=2024-03-01&format=csv", nil, http.StatusBadRequest},
		{"unknown format", "?start=2024-03-01&end=2024-04-01&format=xlsx", nil, http.StatusBadRequest},
		{"no data", "?start=2024-03-01&end=2024-04-01&format=csv", types.ErrNoData, http.StatusNotFound},
		{"billing API failure", "?start=2024-03-01&end=2024-04-01&format=csv", errors.New("throttled"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, &fakeReports{err: tt.err, exportDir: t.TempDir()})

			if rec := get(t, srv, "/export"+tt.query); rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv, _ := newTestServer(t, &fakeReports{})

	if rec := get(t, srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chart", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestRequestLogging_ServerErrors(t *testing.T) {
	srv, console := newTestServer(t, &fakeReports{err: errors.New("boom")})

	get(t, srv, "/chart?start=2024-03-01&end=2024-04-01")

	if len(console.errors) != 2 {
		t.Fatalf("expected the failure and the 502 request line to be logged, got %v", console.errors)
	}
	if !strings.Contains(console.errors[1], "-> 502") {
		t.Errorf("unexpected request log %q", console.errors[1])
	}
}
