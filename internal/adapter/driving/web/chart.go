package web

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// sliceLabel prints "<service>: $<value>" with the value cut to two significant figures
// and an SI suffix, e.g. "Amazon EC2: $1.2k".
const sliceLabel = `function (params) {
  var value = Math.abs(params.value), units = ['', 'k', 'M', 'G', 'T'], i = 0;
  while (value >= 1000 && i < units.length - 1) { value /= 1000; i++; }
  var sign = params.value < 0 ? '-' : '';
  return params.name + ': $' + sign + Number(value.toPrecision(2)) + units[i];
}`

func chartTitle(report *entity.AggregatedReport) string {
	return fmt.Sprintf("Cost by Service: %s - %s", report.Start, report.End)
}

// newPieChart draws one slice per report column valued at the first billing period.
func newPieChart(report *entity.AggregatedReport, settings types.Settings) *charts.Pie {
	first := report.FirstPeriod()

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: dashboardTitle,
			Width:     fmt.Sprintf("%dpx", settings.ChartWidth),
			Height:    fmt.Sprintf("%dpx", settings.ChartHeight),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    chartTitle(report),
			Subtitle: fmt.Sprintf("Billing period %s to %s", first.Start, first.End),
			Left:     "center",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Type:   "scroll",
			Orient: "vertical",
			Left:   "left",
			Top:    "top",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}: ${c} ({d}%)",
		}),
	)

	items := lo.Map(report.Slices(), func(sc entity.ServiceCost, _ int) opts.PieData {
		return opts.PieData{Name: sc.ServiceName, Value: sc.Cost.InexactFloat64()}
	})

	pie.AddSeries("Cost", items).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Position:  "inside",
				Formatter: string(opts.FuncOpts(sliceLabel)),
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"30%", "75%"},
			}),
		)

	return pie
}
