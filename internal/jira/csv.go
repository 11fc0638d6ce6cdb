package jira

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/rs/zerolog/log"
)

// baseColumns is the fixed changelog column order.
var baseColumns = []string{
	"project_id",
	"project_key",
	"issue_id",
	"issue_key",
	"issue_type_id",
	"issue_type_name",
	"issue_title",
	"issue_created_date",
	"changelog_id",
	"status_from_id",
	"status_from_name",
	"status_to_id",
	"status_to_name",
	"status_from_category_name",
	"status_to_category_name",
	"status_change_date",
}

// CSVWriter serializes extraction records as changelog CSV rows.
type CSVWriter struct {
	w            *csv.Writer
	customFields []string
	customNames  map[string]string
	wroteHeader  bool
	rows         int
}

// NewCSVWriter creates a writer. customFields lists extra field IDs appended
// after the base columns; customNames optionally maps a field ID to a
// friendlier header. When appendMode is set the header row is skipped.
func NewCSVWriter(w io.Writer, customFields []string, customNames map[string]string, appendMode bool) *CSVWriter {
	return &CSVWriter{
		w:            csv.NewWriter(w),
		customFields: customFields,
		customNames:  customNames,
		wroteHeader:  appendMode,
	}
}

// Write appends one record, emitting the header first if needed.
func (c *CSVWriter) Write(rec Record) error {
	if !c.wroteHeader {
		header := append([]string(nil), baseColumns...)
		for _, cf := range c.customFields {
			name := cf
			if alias, ok := c.customNames[cf]; ok && alias != "" {
				name = alias
			}
			header = append(header, name)
		}
		if err := c.w.Write(header); err != nil {
			return err
		}
		c.wroteHeader = true
	}

	row := []string{
		rec.ProjectID,
		rec.ProjectKey,
		rec.IssueID,
		rec.IssueKey,
		rec.IssueTypeID,
		rec.IssueTypeName,
		rec.IssueTitle,
		normalizeTime(rec.IssueCreated),
		rec.ChangelogID,
		rec.StatusFromID,
		rec.StatusFromName,
		rec.StatusToID,
		rec.StatusToName,
		rec.FromCategoryName,
		rec.ToCategoryName,
		normalizeTime(rec.StatusChanged),
	}
	for _, cf := range c.customFields {
		row = append(row, rec.Custom[cf])
	}

	c.rows++
	return c.w.Write(row)
}

// Flush writes any buffered rows out.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return err
	}
	log.Debug().Int("rows", c.rows).Msg("Flushed changelog CSV")
	return nil
}

// normalizeTime rewrites Jira timestamps as UTC RFC 3339. Values that do not
// parse are written through untouched.
func normalizeTime(s string) string {
	if s == "" {
		return ""
	}
	t, err := ParseTime(s)
	if err != nil {
		return s
	}
	return t.UTC().Format(time.RFC3339)
}
