package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/eamoe/jira-flow-metrics/internal/changelog"
	"github.com/eamoe/jira-flow-metrics/internal/flow"
	"github.com/eamoe/jira-flow-metrics/internal/report"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	analyzeFile            string
	analyzeOutput          string
	analyzeFormat          string
	analyzeOpen            bool
	analyzeExcludeWeekends bool
	analyzeExcludeTypes    []string
	analyzeSince           string
	analyzeUntil           string
	analyzeByCategory      bool
	analyzeSimulations     int
	analyzeWindow          int
	analyzeSeed            int64
	analyzeTargetItems     float64
	analyzeTargetPoints    float64
	analyzeHorizonDays     int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute flow metrics and forecasts from an extracted changelog CSV",
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input := analyzeFile
	if input == "" {
		input = cfg.OutputFile
	}

	opts := changelog.LoadOptions{}
	for _, t := range analyzeExcludeTypes {
		if opts.ExcludeTypes == nil {
			opts.ExcludeTypes = make(map[string]bool)
		}
		opts.ExcludeTypes[t] = true
	}
	var err error
	if opts.Since, err = parseDateFlag(analyzeSince, "--since"); err != nil {
		return err
	}
	if opts.Until, err = parseDateFlag(analyzeUntil, "--until"); err != nil {
		return err
	}

	file, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening changelog file: %w", err)
	}
	defer file.Close()

	table, err := changelog.Load(file, opts)
	if err != nil {
		return fmt.Errorf("loading changelog: %w", err)
	}
	if len(table.Events) == 0 {
		return fmt.Errorf("no changelog rows left after filtering %s", input)
	}

	timelines := flow.Reconstruct(table, flow.ReconstructOptions{
		ExcludeWeekends: analyzeExcludeWeekends,
	})
	axis := deriveAxis(table, opts.Since, opts.Until)

	log.Info().
		Int("issues", len(timelines)).
		Time("since", axis.Since).
		Time("until", axis.Until).
		Msg("Analyzing changelog")

	tables := buildReports(table, timelines, axis, reportParams{
		byCategory:   analyzeByCategory,
		simulations:  analyzeSimulations,
		window:       analyzeWindow,
		seed:         analyzeSeed,
		targetItems:  analyzeTargetItems,
		targetPoints: analyzeTargetPoints,
		horizonDays:  analyzeHorizonDays,
	})
	if len(tables) == 0 {
		return fmt.Errorf("no reports could be produced from %s", input)
	}

	return writeReports(tables)
}

// deriveAxis builds the reporting range: explicit bounds win, missing bounds
// come from the data itself (earliest creation date through the day after
// the last recorded status change).
func deriveAxis(table *changelog.Table, since, until time.Time) flow.DateAxis {
	if since.IsZero() || until.IsZero() {
		dataMin, dataMax := table.TimeBounds()
		if since.IsZero() {
			since = dataMin
		}
		if until.IsZero() {
			until = dataMax.AddDate(0, 0, 1)
		}
	}
	return flow.NewDateAxis(since, until)
}

func writeReports(tables []*report.Table) error {
	output := analyzeOutput
	if analyzeOpen && analyzeFormat != "html" {
		return fmt.Errorf("--open requires --format html")
	}
	if analyzeOpen && output == "" {
		output = filepath.Join(os.TempDir(), "jira-flow-metrics-report.html")
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch analyzeFormat {
	case "text":
		for _, t := range tables {
			if err := report.WriteText(w, t, report.Options{}); err != nil {
				return fmt.Errorf("rendering %s: %w", t.Title, err)
			}
			fmt.Fprintln(w)
		}
	case "csv":
		for _, t := range tables {
			if err := report.WriteCSV(w, t); err != nil {
				return fmt.Errorf("rendering %s: %w", t.Title, err)
			}
			fmt.Fprintln(w)
		}
	case "html":
		if err := report.WriteHTMLDocument(w, "Flow Metrics Report", tables); err != nil {
			return fmt.Errorf("rendering html report: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q: expected text, csv or html", analyzeFormat)
	}

	if output != "" {
		log.Info().Str("output", output).Str("format", analyzeFormat).Msg("Report written")
	}
	if analyzeOpen {
		if err := browser.OpenFile(output); err != nil {
			log.Error().Err(err).Str("path", output).Msg("Failed to open report in browser")
		}
	}
	return nil
}

func parseDateFlag(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q: expected yyyy-mm-dd", name, value)
	}
	return t, nil
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "changelog CSV to analyze (overrides JIRA_OUTPUT_FILE)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to this file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "report format: text, csv or html")
	analyzeCmd.Flags().BoolVar(&analyzeOpen, "open", false, "open the HTML report in the default browser")
	analyzeCmd.Flags().BoolVarP(&analyzeExcludeWeekends, "exclude-weekends", "w", false, "exclude weekend days from lead and cycle times")
	analyzeCmd.Flags().StringSliceVarP(&analyzeExcludeTypes, "exclude-type", "t", nil, "issue type to exclude (repeatable)")
	analyzeCmd.Flags().StringVarP(&analyzeSince, "since", "s", "", "start of the reporting range (yyyy-mm-dd)")
	analyzeCmd.Flags().StringVarP(&analyzeUntil, "until", "u", "", "end of the reporting range, exclusive (yyyy-mm-dd)")
	analyzeCmd.Flags().BoolVar(&analyzeByCategory, "by-category", false, "aggregate the cumulative flow diagram by status category")
	analyzeCmd.Flags().IntVar(&analyzeSimulations, "simulations", 10000, "Monte Carlo trial count")
	analyzeCmd.Flags().IntVar(&analyzeWindow, "window", 90, "days of throughput history to sample from")
	analyzeCmd.Flags().Int64Var(&analyzeSeed, "seed", 0, "random seed for reproducible forecasts (0 seeds from the clock)")
	analyzeCmd.Flags().Float64Var(&analyzeTargetItems, "target-items", 10, "item count for the duration forecast")
	analyzeCmd.Flags().Float64Var(&analyzeTargetPoints, "target-points", 0, "point total for the duration forecast (0 skips it)")
	analyzeCmd.Flags().IntVar(&analyzeHorizonDays, "horizon", 14, "days ahead for the volume forecasts")

	rootCmd.AddCommand(analyzeCmd)
}
