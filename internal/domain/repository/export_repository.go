package repository

import (
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
)

// ExportRepository writes an aggregated report to disk and returns the absolute file path.
type ExportRepository interface {
	ExportToCSV(report *entity.AggregatedReport, filename string, outputDir string) (string, error)
	ExportToJSON(report *entity.AggregatedReport, filename string, outputDir string) (string, error)
	ExportToPDF(report *entity.AggregatedReport, filename string, outputDir string) (string, error)
}
