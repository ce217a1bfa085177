package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

const (
	stateAwaiting = "awaiting"
	stateInvalid  = "invalid"
	stateReady    = "ready"
)

var exportFormats = []string{"csv", "json", "pdf"}

type exportLink struct {
	Label string
	URL   string
}

type budgetRow struct {
	Name     string
	Limit    string
	Actual   string
	Forecast string
	Used     string
	Over     bool
}

type indexView struct {
	Title       string
	AccountID   string
	Today       string
	Start       string
	End         string
	State       string
	Message     string
	ChartURL    string
	FrameWidth  int
	FrameHeight int
	Width       int
	Exports     []exportLink
	Budgets     []budgetRow
}

type messageView struct {
	Title   string
	Message string
	Error   bool
	Width   int
	Height  int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	defaults := entity.DefaultDateRange(now)

	view := indexView{
		Title:       dashboardTitle,
		AccountID:   s.accountID,
		Today:       now.UTC().Format(entity.DateLayout),
		Start:       defaults.StartString(),
		End:         defaults.EndString(),
		State:       stateAwaiting,
		Width:       s.settings.ChartWidth,
		FrameWidth:  s.settings.ChartWidth + 40,
		FrameHeight: s.settings.ChartHeight + 40,
	}

	query := r.URL.Query()
	start, end := query.Get("start"), query.Get("end")
	if start != "" || end != "" {
		view.Start, view.End = start, end

		dateRange, err := entity.ParseDateRange(start, end, now)
		if err != nil {
			view.State = stateInvalid
			view.Message = err.Error()
		} else {
			view.State = stateReady
			view.ChartURL = "/chart?" + rangeQuery(dateRange).Encode()
			view.Exports = lo.Map(exportFormats, func(format string, _ int) exportLink {
				q := rangeQuery(dateRange)
				q.Set("format", format)
				return exportLink{Label: strings.ToUpper(format), URL: "/export?" + q.Encode()}
			})
		}
	}

	if s.settings.ShowBudgets {
		view.Budgets = lo.Map(s.reports.GetBudgets(r.Context()), func(b entity.BudgetInfo, _ int) budgetRow {
			return budgetRow{
				Name:     b.Name,
				Limit:    b.Limit.StringFixed(2),
				Actual:   b.Actual.StringFixed(2),
				Forecast: b.Forecast.StringFixed(2),
				Used:     fmt.Sprintf("%.1f", b.UsedPercent()),
				Over:     b.OverLimit(),
			}
		})
	}

	s.renderTemplate(w, http.StatusOK, "index.html", view)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	dateRange, err := entity.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"), s.now())
	if err != nil {
		s.renderMessage(w, http.StatusBadRequest, "Invalid range: "+err.Error(), true)
		return
	}

	report, err := s.reports.GenerateReport(r.Context(), dateRange)
	if err != nil {
		if errors.Is(err, types.ErrNoData) {
			s.renderMessage(w, http.StatusOK, fmt.Sprintf("No cost data for %s", dateRange), false)
			return
		}
		s.console.LogError("Error generating report for %s: %s", dateRange, err)
		s.renderMessage(w, http.StatusBadGateway, "Unable to load cost data: "+err.Error(), true)
		return
	}

	s.reports.DisplayReport(report)

	// Render fully before writing so a failed render never leaves a partial chart behind.
	var buf bytes.Buffer
	if err := newPieChart(report, s.settings).Render(&buf); err != nil {
		s.console.LogError("Error rendering chart: %s", err)
		s.renderMessage(w, http.StatusInternalServerError, "Unable to render chart", true)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dateRange, err := entity.ParseDateRange(query.Get("start"), query.Get("end"), s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := strings.ToLower(query.Get("format"))
	if !lo.Contains(exportFormats, format) {
		http.Error(w, fmt.Sprintf("%s: %q", types.ErrUnsupportedFormat, format), http.StatusBadRequest)
		return
	}

	report, err := s.reports.GenerateReport(r.Context(), dateRange)
	if err != nil {
		if errors.Is(err, types.ErrNoData) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.console.LogError("Error generating report for %s: %s", dateRange, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	name := fmt.Sprintf("aws-cost-report_%s_%s", dateRange.StartString(), dateRange.EndString())
	paths, err := s.reports.ExportReport(report, []string{format}, name, s.settings.Dir)
	if err != nil || len(paths) == 0 {
		s.console.LogError("Error exporting report: %v", err)
		http.Error(w, "unable to export report", http.StatusInternalServerError)
		return
	}

	s.console.LogSuccess("Report saved to %s", paths[0])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(paths[0])))
	http.ServeFile(w, r, paths[0])
}

func rangeQuery(dateRange entity.DateRange) url.Values {
	q := url.Values{}
	q.Set("start", dateRange.StartString())
	q.Set("end", dateRange.EndString())
	return q
}

func (s *Server) renderMessage(w http.ResponseWriter, status int, message string, isError bool) {
	s.renderTemplate(w, status, "message.html", messageView{
		Title:   dashboardTitle,
		Message: message,
		Error:   isError,
		Width:   s.settings.ChartWidth,
		Height:  s.settings.ChartHeight,
	})
}

func (s *Server) renderTemplate(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.console.LogError("Error rendering %s: %s", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
