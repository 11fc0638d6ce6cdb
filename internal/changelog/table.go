package changelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Canonical status category names emitted by the Jira status-category API.
const (
	CategoryToDo       = "To Do"
	CategoryInProgress = "In Progress"
	CategoryComplete   = "Complete"
	CategoryDone       = "Done"
)

// ChangeEvent is a single row of the flat changelog table: one status change
// of one issue, or a synthetic "created, never transitioned" row when the
// issue has no changelog (ChangelogID and the status fields are nil then).
type ChangeEvent struct {
	IssueID      int64
	IssueKey     string
	IssueType    string
	IssueCreated time.Time
	IssuePoints  float64

	ChangelogID   *string
	StatusChanged *time.Time
	StatusFrom    *string
	StatusTo      *string
	FromCategory  *string
	ToCategory    *string
}

// IsSynthetic reports whether the row is the placeholder emitted for an issue
// that never transitioned. Synthetic rows carry issue identity only.
func (e ChangeEvent) IsSynthetic() bool {
	return e.ChangelogID == nil
}

// Table is the normalized, deduplicated changelog ready for analysis.
type Table struct {
	Events []ChangeEvent

	RowsRead   int
	Duplicates int
	Filtered   int
}

// TimeBounds reports the earliest issue creation time and the latest event
// time (status change, falling back to creation) in the table. Both are zero
// for an empty table.
func (t *Table) TimeBounds() (min, max time.Time) {
	for _, e := range t.Events {
		if min.IsZero() || e.IssueCreated.Before(min) {
			min = e.IssueCreated
		}
		last := e.IssueCreated
		if e.StatusChanged != nil {
			last = *e.StatusChanged
		}
		if last.After(max) {
			max = last
		}
	}
	return min, max
}

// SchemaError indicates a required column is missing from the input.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("changelog: required column %q missing from input", e.Column)
}

// LoadOptions controls filtering applied while loading the table.
type LoadOptions struct {
	// ExcludeTypes drops rows whose issue type is in the set.
	ExcludeTypes map[string]bool
	// Since/Until filter on issue creation date: [Since, Until).
	Since time.Time
	Until time.Time
}

// requiredColumns are the header names the extractor writes and Load demands.
var requiredColumns = []string{
	"issue_id",
	"issue_key",
	"issue_type_name",
	"issue_created_date",
	"changelog_id",
	"status_from_name",
	"status_to_name",
	"status_from_category_name",
	"status_to_category_name",
	"status_change_date",
}

// timeLayouts are tried in order when parsing timestamp cells.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load reads a changelog CSV, validates the schema, normalizes timestamps to
// UTC, sorts by (issue id, status change time), deduplicates on
// (issue id, changelog id) keeping the first-seen row, and applies the
// optional type and creation-date filters. Deduplication is idempotent:
// loading an already-clean table removes nothing.
func Load(r io.Reader, opts LoadOptions) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("changelog: reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &SchemaError{Column: name}
		}
	}
	pointsIdx, hasPoints := cols["issue_points"]

	table := &Table{}
	seen := make(map[string]bool)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("changelog: reading row %d: %w", table.RowsRead+1, err)
		}
		table.RowsRead++

		cell := func(name string) string {
			idx := cols[name]
			if idx >= len(record) {
				return ""
			}
			return record[idx]
		}

		issueID, err := strconv.ParseInt(cell("issue_id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("changelog: row %d: bad issue_id %q", table.RowsRead, cell("issue_id"))
		}

		created, err := parseTime(cell("issue_created_date"))
		if err != nil {
			return nil, fmt.Errorf("changelog: row %d: bad issue_created_date: %w", table.RowsRead, err)
		}

		event := ChangeEvent{
			IssueID:      issueID,
			IssueKey:     cell("issue_key"),
			IssueType:    cell("issue_type_name"),
			IssueCreated: created,
			IssuePoints:  1,
			ChangelogID:  optString(cell("changelog_id")),
			StatusFrom:   optString(cell("status_from_name")),
			StatusTo:     optString(cell("status_to_name")),
			FromCategory: optString(cell("status_from_category_name")),
			ToCategory:   optString(cell("status_to_category_name")),
		}

		if raw := cell("status_change_date"); raw != "" {
			changed, err := parseTime(raw)
			if err != nil {
				return nil, fmt.Errorf("changelog: row %d: bad status_change_date: %w", table.RowsRead, err)
			}
			event.StatusChanged = &changed
		}

		if hasPoints && pointsIdx < len(record) && record[pointsIdx] != "" {
			if pts, err := strconv.ParseFloat(record[pointsIdx], 64); err == nil {
				event.IssuePoints = pts
			}
		}

		// Dedup on (issue_id, changelog_id), first row wins.
		dupKey := fmt.Sprintf("%d\x00%s", event.IssueID, stringOr(event.ChangelogID, ""))
		if seen[dupKey] {
			table.Duplicates++
			continue
		}
		seen[dupKey] = true

		if opts.ExcludeTypes[event.IssueType] {
			table.Filtered++
			continue
		}
		if !opts.Since.IsZero() && event.IssueCreated.Before(opts.Since) {
			table.Filtered++
			continue
		}
		if !opts.Until.IsZero() && !event.IssueCreated.Before(opts.Until) {
			table.Filtered++
			continue
		}

		table.Events = append(table.Events, event)
	}

	// Stable sort keeps synthetic rows (nil change date) ahead of real ones.
	sort.SliceStable(table.Events, func(i, j int) bool {
		a, b := table.Events[i], table.Events[j]
		if a.IssueID != b.IssueID {
			return a.IssueID < b.IssueID
		}
		if a.StatusChanged == nil {
			return b.StatusChanged != nil
		}
		if b.StatusChanged == nil {
			return false
		}
		return a.StatusChanged.Before(*b.StatusChanged)
	})

	log.Info().
		Int("rows", table.RowsRead).
		Int("duplicates", table.Duplicates).
		Int("filtered", table.Filtered).
		Msg("Changelog table loaded")

	return table, nil
}

func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
