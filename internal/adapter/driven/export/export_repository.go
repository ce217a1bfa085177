package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

func (r *ExportRepositoryImpl) ExportToCSV(report *entity.AggregatedReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := []string{"Service"}
	for _, p := range report.Periods {
		headers = append(headers, p.Start)
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, c := range report.Columns {
		record := []string{c.Name}
		for _, v := range c.Values {
			record = append(record, v.StringFixed(2))
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	totals := []string{"Total"}
	for i := range report.Periods {
		totals = append(totals, report.PeriodTotal(i).StringFixed(2))
	}
	if err := writer.Write(totals); err != nil {
		return "", fmt.Errorf("error writing CSV row: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(report *entity.AggregatedReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToPDF(report *entity.AggregatedReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Cost by Service: %s - %s", report.Start, report.End)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	first := report.FirstPeriod()
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Billing period: %s to %s", first.Start, first.End)), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	nameWidth, costWidth, shareWidth := 110.0, 45.0, 35.0
	pdf.SetFont("Arial", "B", 10)
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.CellFormat(nameWidth, 7, "Service", "B", 0, "L", false, 0, "")
	pdf.CellFormat(costWidth, 7, "Cost", "B", 0, "R", false, 0, "")
	pdf.CellFormat(shareWidth, 7, "Share", "B", 1, "R", false, 0, "")

	total := report.PeriodTotal(0)
	pdf.SetFont("Arial", "", 10)
	for _, sc := range report.Slices() {
		name := sc.ServiceName
		if len(name) > 60 {
			name = name[:57] + "..."
		}
		pdf.CellFormat(nameWidth, 6, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(costWidth, 6, fmt.Sprintf("$%s", sc.Cost.StringFixed(2)), "", 0, "R", false, 0, "")
		pdf.CellFormat(shareWidth, 6, fmt.Sprintf("%s%%", sharePercent(sc.Cost, total)), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(nameWidth, 7, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(costWidth, 7, fmt.Sprintf("$%s", total.StringFixed(2)), "T", 0, "R", false, 0, "")
	pdf.CellFormat(shareWidth, 7, "", "T", 1, "R", false, 0, "")

	if len(report.Bucketed) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(190, 4, tr(fmt.Sprintf("%d services below $%s were merged into Others.",
			len(report.Bucketed), report.Threshold.StringFixed(2))), "", "L", false)
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, fmt.Sprintf("Generated at %s", report.GeneratedAt.Format(time.RFC3339)), "", 0, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

func sharePercent(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "0.0"
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1)
}

var unsafeNameRegex = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	base = unsafeNameRegex.ReplaceAllString(base, "_")
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
