package commands

import (
	"github.com/eamoe/jira-flow-metrics/internal/config"
	"github.com/eamoe/jira-flow-metrics/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	quiet   bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "jira-flow-metrics",
	Short: "Flow metrics and Monte Carlo forecasting for Jira projects",
	Long: `Extracts issue changelogs from Jira and computes flow metrics over them:
lead and cycle times, throughput, work in progress, cumulative flow,
survival analysis and Monte Carlo completion forecasts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose, quiet)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("jira-flow-metrics starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")
}
