package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
)

func fixedRepo() *ExportRepositoryImpl {
	return &ExportRepositoryImpl{now: func() time.Time { return time.Date(2024, 5, 10, 14, 30, 5, 0, time.UTC) }}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleReport() *entity.AggregatedReport {
	return &entity.AggregatedReport{
		Start: "2024-03-01",
		End:   "2024-05-01",
		Periods: []entity.BillingPeriod{
			{Start: "2024-03-01", End: "2024-04-01"},
			{Start: "2024-04-01", End: "2024-05-01"},
		},
		Columns: []entity.ReportColumn{
			{Name: "Amazon EC2", Values: []decimal.Decimal{d("120.50"), d("100")}},
			{Name: "Amazon RDS", Values: []decimal.Decimal{d("79"), d("81.25")}},
			{Name: "Others", Values: []decimal.Decimal{d("0.5"), d("0.75")}, Others: true},
		},
		Threshold:   d("1.91"),
		Bucketed:    []string{"Amazon S3"},
		GeneratedAt: time.Date(2024, 5, 10, 14, 30, 5, 0, time.UTC),
	}
}

func TestExportToCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := fixedRepo().ExportToCSV(sampleReport(), "march", dir)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if filepath.Base(path) != "march_20240510_143005.csv" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}

	want := [][]string{
		{"Service", "2024-03-01", "2024-04-01"},
		{"Amazon EC2", "120.50", "100.00"},
		{"Amazon RDS", "79.00", "81.25"},
		{"Others", "0.50", "0.75"},
		{"Total", "200.00", "182.00"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("unexpected csv\n got: %v\nwant: %v", records, want)
	}
}

func TestExportToJSON(t *testing.T) {
	path, err := fixedRepo().ExportToJSON(sampleReport(), "march", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	var decoded entity.AggregatedReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded.Columns) != 3 || !decoded.Columns[2].Others {
		t.Errorf("expected Others column to survive, got %+v", decoded.Columns)
	}
	if !decoded.Columns[0].Values[0].Equal(d("120.5")) {
		t.Errorf("unexpected first value %s", decoded.Columns[0].Values[0])
	}
	if !reflect.DeepEqual(decoded.Bucketed, []string{"Amazon S3"}) {
		t.Errorf("unexpected bucketed list %v", decoded.Bucketed)
	}
}

func TestExportToPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	path, err := fixedRepo().ExportToPDF(sampleReport(), "march", dir)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("expected a PDF document, got %q", data[:min(len(data), 8)])
	}
}

func TestGenerateFilename_Sanitizes(t *testing.T) {
	dir := t.TempDir()
	path, err := fixedRepo().generateFilename("../costs 2024/03", dir, "csv")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("expected file to stay inside %s, got %s", dir, path)
	}
	if filepath.Base(path) != ".._costs_2024_03_20240510_143005.csv" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}
}

func TestSharePercent(t *testing.T) {
	tests := []struct {
		part, total string
		want        string
	}{
		{"50", "200", "25.0"},
		{"1", "3", "33.3"},
		{"0", "0", "0.0"},
	}
	for _, tt := range tests {
		if got := sharePercent(d(tt.part), d(tt.total)); got != tt.want {
			t.Errorf("sharePercent(%s, %s) = %s, want %s", tt.part, tt.total, got, tt.want)
		}
	}
}
