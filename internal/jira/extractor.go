package jira

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// defaultBatch is the page size used for issue and changelog pagination.
const defaultBatch = 100

// Record is one flat changelog row, mirroring the CSV column set.
type Record struct {
	ProjectID        string
	ProjectKey       string
	IssueID          string
	IssueKey         string
	IssueTypeID      string
	IssueTypeName    string
	IssueTitle       string
	IssueCreated     string
	ChangelogID      string
	StatusFromID     string
	StatusFromName   string
	StatusToID       string
	StatusToName     string
	FromCategoryName string
	ToCategoryName   string
	StatusChanged    string

	Custom map[string]string
}

// ExtractOptions configure one extraction run.
type ExtractOptions struct {
	Project string
	Since   string // yyyy-mm-dd

	// UpdatesOnly switches the JQL filter from created to updated.
	UpdatesOnly bool
	// Anonymize strips project keys and titles from the output.
	Anonymize bool
	// CustomFields lists extra field IDs to carry through per issue.
	CustomFields []string
}

// Extractor walks the paginated search and changelog endpoints and joins
// status changes with the status-to-category lookup tables.
type Extractor struct {
	fetcher *Fetcher
}

// NewExtractor creates an extractor over a fetcher.
func NewExtractor(fetcher *Fetcher) *Extractor {
	return &Extractor{fetcher: fetcher}
}

// FetchChangelog streams one Record per status change of every issue matching
// the options, in issue order. Issues without any status change emit a single
// synthetic row with empty changelog and status fields so downstream
// analysis still sees them.
func (x *Extractor) FetchChangelog(ctx context.Context, opts ExtractOptions, emit func(Record) error) error {
	log.Info().Str("project", opts.Project).Str("since", opts.Since).Msg("Fetching project changelog")

	categories, err := x.fetcher.GetStatusCategories(ctx)
	if err != nil {
		return fmt.Errorf("fetching status categories: %w", err)
	}
	statuses, err := x.fetcher.GetStatuses(ctx)
	if err != nil {
		return fmt.Errorf("fetching statuses: %w", err)
	}
	project, err := x.fetcher.GetProject(ctx, opts.Project)
	if err != nil {
		return fmt.Errorf("fetching project %s: %w", opts.Project, err)
	}

	// status id -> category name
	categoryByID := make(map[int]string, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c.Name
	}
	categoryByStatus := make(map[string]string, len(statuses))
	for _, s := range statuses {
		categoryByStatus[s.ID] = categoryByID[s.StatusCategory.ID]
	}

	jql := x.buildJQL(opts)
	fields := []string{"parent", "summary", "status", "issuetype", "created", "updated"}
	fields = append(fields, opts.CustomFields...)

	issueCount := 0
	rowCount := 0

	err = x.eachIssue(ctx, jql, fields, func(issue IssueDTO) error {
		issueCount++
		log.Info().Str("issue", issue.Key).Msg("Fetching issue changelog")

		prefix := Record{
			ProjectID:     project.ID,
			ProjectKey:    project.Key,
			IssueID:       issue.ID,
			IssueKey:      issue.Key,
			IssueTypeID:   issue.FieldNested("issuetype", "id"),
			IssueTypeName: issue.FieldNested("issuetype", "name"),
			IssueTitle:    issue.FieldString("summary"),
			IssueCreated:  issue.FieldString("created"),
		}
		if len(opts.CustomFields) > 0 {
			prefix.Custom = make(map[string]string, len(opts.CustomFields))
			for _, cf := range opts.CustomFields {
				if v, ok := issue.Fields[cf].(string); ok {
					prefix.Custom[cf] = v
				} else if v, ok := issue.Fields[cf].(float64); ok {
					prefix.Custom[cf] = strconv.FormatFloat(v, 'f', -1, 64)
				}
			}
		}
		if opts.Anonymize {
			prefix.IssueKey = strings.Replace(prefix.IssueKey, project.Key, "ANON", 1)
			prefix.ProjectKey = "ANON"
			prefix.IssueTitle = "Anonymized Title"
		}

		hasStatus := false
		err := x.eachChangeSet(ctx, issue.ID, func(cs ChangeSetDTO) error {
			for _, item := range cs.Items {
				if !strings.EqualFold(item.Field, "status") {
					continue
				}
				row := prefix
				row.ChangelogID = cs.ID
				row.StatusFromID = item.From
				row.StatusFromName = item.FromString
				row.StatusToID = item.To
				row.StatusToName = item.ToString
				row.FromCategoryName = categoryByStatus[item.From]
				row.ToCategoryName = categoryByStatus[item.To]
				row.StatusChanged = cs.Created
				hasStatus = true
				rowCount++
				if err := emit(row); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		// Issues that never transitioned still appear once.
		if !hasStatus {
			rowCount++
			return emit(prefix)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("issues", issueCount).Int("rows", rowCount).Msg("Extraction complete")
	return nil
}

func (x *Extractor) buildJQL(opts ExtractOptions) string {
	field := "created"
	if opts.UpdatesOnly {
		field = "updated"
	}
	return fmt.Sprintf("project = %s AND %s >= %q ORDER BY created ASC", opts.Project, field, opts.Since)
}

// eachIssue pages through the search endpoint until the reported total is
// exhausted or a page comes back empty.
func (x *Extractor) eachIssue(ctx context.Context, jql string, fields []string, fn func(IssueDTO) error) error {
	head, err := x.fetcher.SearchIssues(ctx, jql, fields, 0, 0)
	if err != nil {
		return err
	}

	fetched := 0
	for fetched < head.Total {
		page, err := x.fetcher.SearchIssues(ctx, jql, fields, fetched, defaultBatch)
		if err != nil {
			return err
		}
		if len(page.Issues) == 0 {
			break
		}
		for _, issue := range page.Issues {
			if err := fn(issue); err != nil {
				return err
			}
			fetched++
		}
	}
	return nil
}

// eachChangeSet pages through an issue's changelog. Small changelogs are
// served in one probe request.
func (x *Extractor) eachChangeSet(ctx context.Context, issueID string, fn func(ChangeSetDTO) error) error {
	const probeLimit = 10

	head, err := x.fetcher.GetIssueChangelog(ctx, issueID, 0, probeLimit)
	if err != nil {
		return err
	}
	if head.Total <= probeLimit {
		for _, cs := range head.Values {
			if err := fn(cs); err != nil {
				return err
			}
		}
		return nil
	}

	fetched := 0
	for fetched < head.Total {
		page, err := x.fetcher.GetIssueChangelog(ctx, issueID, fetched, defaultBatch)
		if err != nil {
			return err
		}
		if len(page.Values) == 0 {
			break
		}
		for _, cs := range page.Values {
			if err := fn(cs); err != nil {
				return err
			}
			fetched++
		}
	}
	return nil
}
