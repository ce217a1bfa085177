package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// ReportUseCase fetches cost data for a date range and turns it into an aggregated report.
type ReportUseCase struct {
	awsRepo    repository.AWSRepository
	exportRepo repository.ExportRepository
	console    types.ConsoleInterface

	options AggregateOptions
	now     func() time.Time
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	awsRepo repository.AWSRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
) *ReportUseCase {
	return &ReportUseCase{
		awsRepo:    awsRepo,
		exportRepo: exportRepo,
		console:    console,
		options:    DefaultAggregateOptions(),
		now:        time.Now,
	}
}

// Configure applies the aggregation part of the settings.
func (uc *ReportUseCase) Configure(settings types.Settings) {
	uc.options = AggregateOptions{
		ThresholdRatio: settings.Threshold,
		OthersLabel:    settings.OthersLabel,
	}
}

// VerifyCredentials resolves the account behind the configured credential chain.
func (uc *ReportUseCase) VerifyCredentials(ctx context.Context) (string, error) {
	accountID, err := uc.awsRepo.GetAccountID(ctx)
	if err != nil {
		return "", fmt.Errorf("unable to validate AWS credentials: %w", err)
	}
	return accountID, nil
}

// GenerateReport queries the billing API for the range and aggregates the answer.
// Billing API errors are returned as they come; an empty answer yields types.ErrNoData.
func (uc *ReportUseCase) GenerateReport(ctx context.Context, dateRange entity.DateRange) (*entity.AggregatedReport, error) {
	results, err := uc.awsRepo.GetCostAndUsageByService(ctx, dateRange)
	if err != nil {
		return nil, err
	}

	table, err := BuildCostTable(results)
	if err != nil {
		return nil, err
	}

	report, err := Aggregate(table, uc.options)
	if err != nil {
		return nil, err
	}

	report.Start = dateRange.StartString()
	report.End = dateRange.EndString()
	report.GeneratedAt = uc.now().UTC()

	return report, nil
}

// GetBudgets returns the account budgets. Failures are logged and reported as no budgets.
func (uc *ReportUseCase) GetBudgets(ctx context.Context) []entity.BudgetInfo {
	budgets, err := uc.awsRepo.GetBudgets(ctx)
	if err != nil {
		uc.console.LogWarning("Unable to load budgets: %s", err)
		return nil
	}
	return budgets
}

// DisplayReport echoes a report to the console as a table plus a bar breakdown of the first period.
func (uc *ReportUseCase) DisplayReport(report *entity.AggregatedReport) {
	table := uc.console.CreateTable()
	table.AddColumn("Service")
	for _, p := range report.Periods {
		table.AddColumn(p.Start)
	}

	for _, c := range report.Columns {
		cells := []interface{}{c.Name}
		for _, v := range c.Values {
			cells = append(cells, fmt.Sprintf("$%s", v.StringFixed(2)))
		}
		table.AddRow(cells...)
	}

	totals := []interface{}{pterm.Bold.Sprint("Total")}
	for i := range report.Periods {
		totals = append(totals, pterm.Bold.Sprintf("$%s", report.PeriodTotal(i).StringFixed(2)))
	}
	table.AddRow(totals...)

	uc.console.Println(table.Render())

	shares := make([]types.ServiceShare, 0, len(report.Columns))
	for _, sc := range report.Slices() {
		shares = append(shares, types.ServiceShare{Name: sc.ServiceName, Cost: sc.Cost.InexactFloat64()})
	}
	uc.console.DisplayServiceBars(fmt.Sprintf("Cost by Service: %s - %s", report.Start, report.End), shares)

	if len(report.Bucketed) > 0 {
		uc.console.LogInfo("%d services below $%s merged into %s", len(report.Bucketed), report.Threshold.StringFixed(2), uc.options.OthersLabel)
	}
}

// ExportReport writes the report in each requested format and returns the written paths.
func (uc *ReportUseCase) ExportReport(report *entity.AggregatedReport, reportTypes []string, reportName, dir string) ([]string, error) {
	if reportName == "" {
		reportName = "aws-cost-report"
	}

	var paths []string
	for _, reportType := range reportTypes {
		var (
			path string
			err  error
		)

		switch strings.ToLower(strings.TrimSpace(reportType)) {
		case "csv":
			path, err = uc.exportRepo.ExportToCSV(report, reportName, dir)
		case "json":
			path, err = uc.exportRepo.ExportToJSON(report, reportName, dir)
		case "pdf":
			path, err = uc.exportRepo.ExportToPDF(report, reportName, dir)
		default:
			return paths, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, reportType)
		}
		if err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// RunReport is the one-shot path: validate the range, aggregate, print and export.
func (uc *ReportUseCase) RunReport(ctx context.Context, args *types.CLIArgs, settings types.Settings) error {
	dateRange, err := entity.ParseDateRange(args.StartDate, args.EndDate, uc.now())
	if err != nil {
		return err
	}

	status := uc.console.Status(fmt.Sprintf("Fetching cost data for %s...", dateRange))
	report, err := uc.GenerateReport(ctx, dateRange)
	status.Stop()
	if err != nil {
		return err
	}

	uc.DisplayReport(report)

	if len(args.ReportType) == 0 {
		return nil
	}

	paths, err := uc.ExportReport(report, args.ReportType, args.ReportName, settings.Dir)
	for _, path := range paths {
		uc.console.LogSuccess("Report saved to %s", path)
	}
	return err
}
