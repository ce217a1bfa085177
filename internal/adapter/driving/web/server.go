package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

const (
	dashboardTitle  = "Monthly Cost Explorer Dashboard"
	shutdownTimeout = 5 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ReportService is what the dashboard needs from the report use case.
type ReportService interface {
	GenerateReport(ctx context.Context, dateRange entity.DateRange) (*entity.AggregatedReport, error)
	DisplayReport(report *entity.AggregatedReport)
	ExportReport(report *entity.AggregatedReport, reportTypes []string, reportName, dir string) ([]string, error)
	GetBudgets(ctx context.Context) []entity.BudgetInfo
}

// Server is the browser dashboard: a date-range form and a pie chart of the requested range.
// Requests share no mutable state; every chart is computed for the range in its own URL.
type Server struct {
	reports   ReportService
	console   types.ConsoleInterface
	settings  types.Settings
	accountID string
	now       func() time.Time
}

// NewServer cria o servidor do dashboard.
func NewServer(reports ReportService, console types.ConsoleInterface, settings types.Settings, accountID string) *Server {
	return &Server{
		reports:   reports,
		console:   console,
		settings:  settings,
		accountID: accountID,
		now:       time.Now,
	}
}

// Handler returns the dashboard routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /chart", s.handleChart)
	mux.HandleFunc("GET /export", s.handleExport)
	return s.logRequests(mux)
}

// Run serves the dashboard until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.settings.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.console.LogSuccess("Dashboard running on http://%s", s.settings.Listen)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashboard server failed: %w", err)
	case <-ctx.Done():
	}

	s.console.LogInfo("Shutting down dashboard...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		msg := "%s %s -> %d (%s)"
		args := []interface{}{r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Millisecond)}
		if rec.status >= http.StatusInternalServerError {
			s.console.LogError(msg, args...)
			return
		}
		s.console.LogInfo(msg, args...)
	})
}
