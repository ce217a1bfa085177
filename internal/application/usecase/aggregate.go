package usecase

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// AggregateOptions controls how low-spend services are folded together.
type AggregateOptions struct {
	// ThresholdRatio is applied to the mean period total; services whose total over all
	// periods falls below the result are merged into the Others column.
	ThresholdRatio float64
	OthersLabel    string
}

// DefaultAggregateOptions returns the 1% / "Others" setup of a monthly report.
func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{
		ThresholdRatio: types.DefaultThreshold,
		OthersLabel:    types.DefaultOthersLabel,
	}
}

// BuildCostTable reshapes the per-period API results into a dense table.
// Periods are ordered chronologically and services keep the order in which they were first seen.
func BuildCostTable(results []entity.PeriodResult) (*entity.CostTable, error) {
	table := &entity.CostTable{
		Cells: make(map[string]map[string]decimal.Decimal),
	}

	seenService := make(map[string]bool)
	for _, result := range results {
		if _, ok := table.Cells[result.Period.Start]; !ok {
			table.Periods = append(table.Periods, result.Period)
			table.Cells[result.Period.Start] = make(map[string]decimal.Decimal)
		}
		for _, group := range result.Groups {
			for _, service := range group.Keys {
				if !seenService[service] {
					seenService[service] = true
					table.Services = append(table.Services, service)
				}
			}
		}
	}

	if len(table.Periods) == 0 || len(table.Services) == 0 {
		return nil, types.ErrNoData
	}

	sort.SliceStable(table.Periods, func(i, j int) bool {
		return table.Periods[i].Start < table.Periods[j].Start
	})

	for _, p := range table.Periods {
		row := table.Cells[p.Start]
		for _, service := range table.Services {
			row[service] = decimal.Zero
		}
	}

	for _, result := range results {
		row := table.Cells[result.Period.Start]
		for _, group := range result.Groups {
			amount := group.Amount.Round(2)
			for _, service := range group.Keys {
				row[service] = amount
			}
		}
	}

	return table, nil
}

// Aggregate folds services below the threshold into a single Others column and sorts
// the remaining columns by their value in the first period, highest first.
func Aggregate(table *entity.CostTable, opts AggregateOptions) (*entity.AggregatedReport, error) {
	if table == nil || len(table.Periods) == 0 || len(table.Services) == 0 {
		return nil, types.ErrNoData
	}

	periodTotals := lo.Map(table.Periods, func(p entity.BillingPeriod, _ int) decimal.Decimal {
		return table.PeriodTotal(p.Start)
	})
	mean := decimal.Sum(periodTotals[0], periodTotals[1:]...).Div(decimal.NewFromInt(int64(len(periodTotals))))
	threshold := mean.Mul(decimal.NewFromFloat(opts.ThresholdRatio))

	report := &entity.AggregatedReport{
		Periods:   append([]entity.BillingPeriod(nil), table.Periods...),
		Threshold: threshold,
	}

	others := entity.ReportColumn{
		Name:   opts.OthersLabel,
		Values: make([]decimal.Decimal, len(table.Periods)),
		Others: true,
	}
	for i := range others.Values {
		others.Values[i] = decimal.Zero
	}

	for _, service := range table.Services {
		values := lo.Map(table.Periods, func(p entity.BillingPeriod, _ int) decimal.Decimal {
			return table.Amount(p.Start, service)
		})

		if table.ServiceTotal(service).LessThan(threshold) {
			for i, v := range values {
				others.Values[i] = others.Values[i].Add(v)
			}
			report.Bucketed = append(report.Bucketed, service)
			continue
		}

		report.Columns = append(report.Columns, entity.ReportColumn{Name: service, Values: values})
	}

	if len(report.Bucketed) > 0 {
		report.Columns = append(report.Columns, others)
	}

	sort.SliceStable(report.Columns, func(i, j int) bool {
		return report.Columns[i].Values[0].GreaterThan(report.Columns[j].Values[0])
	})

	return report, nil
}
