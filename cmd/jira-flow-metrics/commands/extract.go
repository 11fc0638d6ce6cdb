package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/eamoe/jira-flow-metrics/internal/jira"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	extractSince       string
	extractUpdatesOnly bool
	extractAppend      bool
	extractAnonymize   bool
	extractDomain      string
	extractEmail       string
	extractAPIKey      string
	extractOutput      string
	extractFields      []string
	extractFieldNames  []string
)

var extractCmd = &cobra.Command{
	Use:   "extract PROJECT",
	Short: "Extract a project's issue changelog from Jira into a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	project := args[0]

	if _, err := time.Parse("2006-01-02", extractSince); err != nil {
		return fmt.Errorf("invalid --since date %q: expected yyyy-mm-dd", extractSince)
	}
	if len(extractFieldNames) > 0 && len(extractFieldNames) != len(extractFields) {
		return fmt.Errorf("--field-name count (%d) must match --field count (%d)", len(extractFieldNames), len(extractFields))
	}

	jiraCfg := cfg.Jira
	if extractDomain != "" {
		jiraCfg.Domain = extractDomain
	}
	if extractEmail != "" {
		jiraCfg.Email = extractEmail
	}
	if extractAPIKey != "" {
		jiraCfg.APIKey = extractAPIKey
	}
	if jiraCfg.Domain == "" || jiraCfg.Email == "" || jiraCfg.APIKey == "" {
		return fmt.Errorf("jira credentials missing: set JIRA_DOMAIN, JIRA_EMAIL and JIRA_APIKEY or pass -d/-e/-k")
	}

	output := extractOutput
	if output == "" {
		output = cfg.OutputFile
	}

	flags := os.O_CREATE | os.O_WRONLY
	appendMode := extractAppend
	if appendMode {
		if _, err := os.Stat(output); err != nil {
			// Nothing to append to yet, start a fresh file with a header.
			appendMode = false
		}
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(output, flags, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer file.Close()

	names := make(map[string]string, len(extractFieldNames))
	for i, alias := range extractFieldNames {
		names[extractFields[i]] = alias
	}

	extractor := jira.NewExtractor(jira.NewFetcher(jira.NewClient(jiraCfg)))
	writer := jira.NewCSVWriter(file, extractFields, names, appendMode)

	err = extractor.FetchChangelog(cmd.Context(), jira.ExtractOptions{
		Project:      project,
		Since:        extractSince,
		UpdatesOnly:  extractUpdatesOnly,
		Anonymize:    extractAnonymize,
		CustomFields: extractFields,
	}, writer.Write)
	if err != nil {
		return fmt.Errorf("extracting changelog: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	log.Info().Str("project", project).Str("output", output).Msg("Changelog written")
	return nil
}

func init() {
	extractCmd.Flags().StringVarP(&extractSince, "since", "s", "2020-01-01", "only fetch issues created or updated on or after this date (yyyy-mm-dd)")
	extractCmd.Flags().BoolVarP(&extractUpdatesOnly, "updates-only", "u", false, "filter issues by update date instead of creation date")
	extractCmd.Flags().BoolVarP(&extractAppend, "append", "a", false, "append to the output file instead of overwriting it")
	extractCmd.Flags().BoolVarP(&extractAnonymize, "anonymize", "A", false, "anonymize project keys and issue titles in the output")
	extractCmd.Flags().StringVarP(&extractDomain, "domain", "d", "", "Jira domain (overrides JIRA_DOMAIN)")
	extractCmd.Flags().StringVarP(&extractEmail, "email", "e", "", "Jira account email (overrides JIRA_EMAIL)")
	extractCmd.Flags().StringVarP(&extractAPIKey, "apikey", "k", "", "Jira API key (overrides JIRA_APIKEY)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output CSV file (overrides JIRA_OUTPUT_FILE)")
	extractCmd.Flags().StringSliceVarP(&extractFields, "field", "f", nil, "custom field ID to include (repeatable)")
	extractCmd.Flags().StringSliceVarP(&extractFieldNames, "field-name", "n", nil, "header name for the matching --field (repeatable)")

	rootCmd.AddCommand(extractCmd)
}
