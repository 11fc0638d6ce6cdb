package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/eamoe/jira-flow-metrics/internal/changelog"
	"github.com/eamoe/jira-flow-metrics/internal/flow"
	"github.com/eamoe/jira-flow-metrics/internal/forecast"
	"github.com/eamoe/jira-flow-metrics/internal/report"
	"github.com/eamoe/jira-flow-metrics/internal/survival"

	"github.com/rs/zerolog/log"
)

type reportParams struct {
	byCategory   bool
	simulations  int
	window       int
	seed         int64
	targetItems  float64
	targetPoints float64
	horizonDays  int
}

// buildReports runs every report builder and collects the non-empty tables.
// A builder failure is logged and skipped so one bad report does not take
// the whole run down.
func buildReports(table *changelog.Table, timelines []flow.IssueTimeline, axis flow.DateAxis, params reportParams) []*report.Table {
	builders := []struct {
		name  string
		build func() (*report.Table, error)
	}{
		{"lead time", func() (*report.Table, error) {
			return intervalTable("Lead Time", flow.LeadTimeSeries(timelines, axis)), nil
		}},
		{"cycle time", func() (*report.Table, error) {
			return intervalTable("Cycle Time", flow.CycleTimeSeries(timelines, axis)), nil
		}},
		{"throughput", func() (*report.Table, error) {
			_, weeks := flow.Throughput(timelines, axis)
			return throughputTable(weeks), nil
		}},
		{"wip", func() (*report.Table, error) {
			_, weeks := flow.WIP(timelines, axis)
			return wipTable(weeks), nil
		}},
		{"wip age", func() (*report.Table, error) {
			return wipAgeTables(flow.WIPAge(timelines, axis))
		}},
		{"cumulative flow", func() (*report.Table, error) {
			result, err := flow.Flow(table, axis, params.byCategory)
			if err != nil {
				return nil, err
			}
			return flowTable(result), nil
		}},
		{"survival", func() (*report.Table, error) {
			return survivalTable(timelines, axis)
		}},
		{"correlation", func() (*report.Table, error) {
			return correlationTable(timelines, axis)
		}},
		{"forecast", func() (*report.Table, error) {
			return forecastTable(timelines, axis, params)
		}},
	}

	var tables []*report.Table
	for _, b := range builders {
		t, err := b.build()
		if err != nil {
			log.Error().Err(err).Str("report", b.name).Msg("Report failed, skipping")
			continue
		}
		if t == nil || t.Empty() {
			log.Warn().Str("report", b.name).Msg("Report is empty, skipping")
			continue
		}
		tables = append(tables, t)
	}
	return tables
}

func intervalTable(title string, points []flow.IntervalPoint) *report.Table {
	t := report.New(title,
		"issue_key", "issue_type", "completed", "days",
		"rolling_mean", "rolling_std", "dataset_mean", "dataset_std")
	for _, p := range points {
		t.Append(
			p.IssueKey,
			p.IssueType,
			p.CompletedAt.Format("2006-01-02"),
			days(p.Days),
			days(p.RollingMean),
			days(p.RollingStd),
			days(p.DatasetMean),
			days(p.DatasetStd),
		)
	}
	return t
}

func throughputTable(weeks []flow.ThroughputWeek) *report.Table {
	t := report.New("Throughput and Velocity (weekly)",
		"week_ending", "items", "points",
		"items_rolling_mean", "items_rolling_std",
		"points_rolling_mean", "points_rolling_std")
	for _, w := range weeks {
		t.Append(
			w.WeekEnding.Format("2006-01-02"),
			strconv.Itoa(w.Total),
			days(w.Points),
			days(w.RollingMean),
			days(w.RollingStd),
			days(w.PointsMean),
			days(w.PointsStd),
		)
	}
	return t
}

func wipTable(weeks []flow.WIPWeek) *report.Table {
	t := report.New("Work In Progress (weekly)", "week_ending", "count")
	for _, w := range weeks {
		t.Append(w.WeekEnding.Format("2006-01-02"), strconv.Itoa(w.Count))
	}
	return t
}

func wipAgeTables(age *flow.WIPAgeReport) (*report.Table, error) {
	if age == nil || len(age.Rows) == 0 {
		return nil, nil
	}
	t := report.New("WIP Age",
		"issue_key", "issue_type", "status", "stage_age_days", "total_age_days")
	for _, r := range age.Rows {
		t.Append(r.IssueKey, r.IssueType, r.Status, days(r.StageAgeDays), days(r.TotalAgeDays))
	}
	t.Append("p50", "", "", days(age.Stage.P50), days(age.Total.P50))
	t.Append("p75", "", "", days(age.Stage.P75), days(age.Total.P75))
	t.Append("p85", "", "", days(age.Stage.P85), days(age.Total.P85))
	t.Append("p95", "", "", days(age.Stage.P95), days(age.Total.P95))
	t.Append("p99.9", "", "", days(age.Stage.P999), days(age.Total.P999))
	return t, nil
}

func flowTable(result *flow.FlowResult) *report.Table {
	columns := append([]string{"date"}, result.Statuses...)
	t := report.New("Cumulative Flow", columns...)
	for _, d := range result.Days {
		row := make([]string, 0, len(columns))
		row = append(row, d.Date.Format("2006-01-02"))
		for _, s := range result.Statuses {
			row = append(row, strconv.Itoa(d.Counts[s]))
		}
		t.Append(row...)
	}
	return t
}

// survivalTable reports, for lead and cycle times, the number of days within
// which an item completes at each probability level, under both the
// Kaplan-Meier estimator and a fitted Weibull distribution.
func survivalTable(timelines []flow.IssueTimeline, axis flow.DateAxis) (*report.Table, error) {
	t := report.New("Completion Probabilities",
		"measure", "model", "p25", "p50", "p75", "p85", "p95", "p99.9")

	measures := []struct {
		name      string
		durations []float64
	}{
		{"lead_time", completedDurations(timelines, axis, flow.IssueTimeline.LeadTimeDays)},
		{"cycle_time", completedDurations(timelines, axis, flow.IssueTimeline.CycleTimeDays)},
	}
	for _, m := range measures {
		if km := survival.FitKaplanMeier(m.durations); km != nil {
			t.Append(append([]string{m.name, "kaplan-meier"}, bandCells(km.Bands())...)...)
		}
		wb, err := survival.FitWeibull(m.durations)
		if err != nil {
			log.Warn().Err(err).Str("measure", m.name).Msg("Weibull fit unavailable")
			continue
		}
		t.Append(append([]string{m.name, fmt.Sprintf("weibull(k=%.2f)", wb.Shape)}, bandCells(wb.Bands())...)...)
	}
	return t, nil
}

func correlationTable(timelines []flow.IssueTimeline, axis flow.DateAxis) (*report.Table, error) {
	var points, durations []float64
	for _, tl := range timelines {
		if !tl.Completed() || !axis.Contains(*tl.LastComplete) {
			continue
		}
		points = append(points, tl.IssuePoints)
		durations = append(durations, tl.CycleTimeDays())
	}
	corr, err := survival.Correlate(points, durations)
	if err != nil {
		return nil, err
	}

	t := report.New("Points vs Cycle Time Correlation",
		"n", "r", "r_squared", "p_value", "power", "significant")
	t.Append(
		strconv.Itoa(corr.N),
		fmt.Sprintf("%.3f", corr.R),
		fmt.Sprintf("%.3f", corr.R2),
		fmt.Sprintf("%.4f", corr.P),
		fmt.Sprintf("%.3f", corr.Power),
		strconv.FormatBool(corr.Significant),
	)
	return t, nil
}

// forecastTable runs the four Monte Carlo variants over the trailing
// throughput and velocity histories.
func forecastTable(timelines []flow.IssueTimeline, axis flow.DateAxis, params reportParams) (*report.Table, error) {
	daily, _ := flow.Throughput(timelines, axis)
	items := make([]float64, len(daily))
	pts := make([]float64, len(daily))
	for i, d := range daily {
		items[i] = float64(d.Total)
		pts[i] = d.Points
	}

	seed := params.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		log.Debug().Int64("seed", seed).Msg("Seeding forecast from the clock")
	}
	itemEngine := forecast.NewEngine(forecast.NewHistogram(items, params.window), seed)
	pointEngine := forecast.NewEngine(forecast.NewHistogram(pts, params.window), seed)

	t := report.New("Monte Carlo Forecast",
		"question", "unit", "p25", "p50", "p75", "p85", "p95", "p99.9")

	appendRun := func(question, unit string, r forecast.Result) {
		for _, w := range r.Warnings {
			log.Warn().Str("forecast", question).Msg(w)
		}
		t.Append(append([]string{question, unit}, bandCells(r.Bands)...)...)
	}

	if params.targetItems > 0 {
		appendRun(
			fmt.Sprintf("days to complete %g items", params.targetItems), "days",
			itemEngine.RunDuration(params.targetItems, params.simulations))
	}
	if params.targetPoints > 0 {
		appendRun(
			fmt.Sprintf("days to complete %g points", params.targetPoints), "days",
			pointEngine.RunDuration(params.targetPoints, params.simulations))
	}
	if params.horizonDays > 0 {
		appendRun(
			fmt.Sprintf("items completed in %d days", params.horizonDays), "items",
			itemEngine.RunVolume(params.horizonDays, params.simulations))
		appendRun(
			fmt.Sprintf("points completed in %d days", params.horizonDays), "points",
			pointEngine.RunVolume(params.horizonDays, params.simulations))
	}
	return t, nil
}

func completedDurations(timelines []flow.IssueTimeline, axis flow.DateAxis, measure func(flow.IssueTimeline) float64) []float64 {
	var out []float64
	for _, tl := range timelines {
		if !tl.Completed() || !axis.Contains(*tl.LastComplete) {
			continue
		}
		out = append(out, measure(tl))
	}
	return out
}

// bandCells renders the standard probability levels in ascending order.
func bandCells(bands map[float64]float64) []string {
	cells := make([]string, 0, len(survival.ProbabilityBands))
	for _, p := range survival.ProbabilityBands {
		cells = append(cells, days(bands[p]))
	}
	return cells
}

func days(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
