package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingPeriod is a calendar-month aligned window as reported by the billing API.
// Start is inclusive and End is exclusive, both ISO dates.
type BillingPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GroupAmount is one grouped line inside a billing period. With a single SERVICE group-by
// Keys holds exactly one service name.
type GroupAmount struct {
	Keys   []string        `json:"keys"`
	Amount decimal.Decimal `json:"amount"`
}

// PeriodResult is the billing API answer for a single period.
type PeriodResult struct {
	Period BillingPeriod `json:"period"`
	Groups []GroupAmount `json:"groups"`
}

// CostRecord is a single (period, service, amount) triple.
type CostRecord struct {
	Period  string          `json:"period"`
	Service string          `json:"service"`
	Amount  decimal.Decimal `json:"amount"`
}

// CostTable is a dense period x service table. Every service seen in any period
// has a cell in every period, zero when the API reported nothing for it.
type CostTable struct {
	Periods  []BillingPeriod
	Services []string
	Cells    map[string]map[string]decimal.Decimal
}

// Amount returns the cell for the given period start and service.
func (t *CostTable) Amount(period, service string) decimal.Decimal {
	return t.Cells[period][service]
}

// PeriodTotal sums every service of a period.
func (t *CostTable) PeriodTotal(period string) decimal.Decimal {
	total := decimal.Zero
	for _, service := range t.Services {
		total = total.Add(t.Amount(period, service))
	}
	return total
}

// ServiceTotal sums a service over every period.
func (t *CostTable) ServiceTotal(service string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range t.Periods {
		total = total.Add(t.Amount(p.Start, service))
	}
	return total
}

// Records flattens the table in period order, then service order.
func (t *CostTable) Records() []CostRecord {
	records := make([]CostRecord, 0, len(t.Periods)*len(t.Services))
	for _, p := range t.Periods {
		for _, service := range t.Services {
			records = append(records, CostRecord{
				Period:  p.Start,
				Service: service,
				Amount:  t.Amount(p.Start, service),
			})
		}
	}
	return records
}

// ReportColumn is one service, or the Others bucket, of an aggregated report.
// Values is aligned with AggregatedReport.Periods.
type ReportColumn struct {
	Name   string            `json:"name"`
	Values []decimal.Decimal `json:"values"`
	Others bool              `json:"others,omitempty"`
}

// ServiceCost represents a cost amount for a specific AWS service.
type ServiceCost struct {
	ServiceName string          `json:"service_name"`
	Cost        decimal.Decimal `json:"cost"`
}

// AggregatedReport is the cost table after low-spend services were folded into Others
// and the remaining columns were sorted by first-period spend.
type AggregatedReport struct {
	Start       string          `json:"start"`
	End         string          `json:"end"`
	Periods     []BillingPeriod `json:"periods"`
	Columns     []ReportColumn  `json:"columns"`
	Threshold   decimal.Decimal `json:"threshold"`
	Bucketed    []string        `json:"bucketed,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// FirstPeriod returns the chronologically first period of the report.
func (r *AggregatedReport) FirstPeriod() BillingPeriod {
	if len(r.Periods) == 0 {
		return BillingPeriod{}
	}
	return r.Periods[0]
}

// Slices returns one entry per column valued at the first period, in column order.
func (r *AggregatedReport) Slices() []ServiceCost {
	slices := make([]ServiceCost, 0, len(r.Columns))
	for _, c := range r.Columns {
		cost := decimal.Zero
		if len(c.Values) > 0 {
			cost = c.Values[0]
		}
		slices = append(slices, ServiceCost{ServiceName: c.Name, Cost: cost})
	}
	return slices
}

// PeriodTotal sums every column of the i-th period.
func (r *AggregatedReport) PeriodTotal(i int) decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Columns {
		if i < len(c.Values) {
			total = total.Add(c.Values[i])
		}
	}
	return total
}
