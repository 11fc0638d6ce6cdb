package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Fetcher wraps the specific Jira endpoints the extractor depends on.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a fetcher over an API client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// GetStatusCategories fetches all status categories.
func (f *Fetcher) GetStatusCategories(ctx context.Context) ([]StatusCategoryDTO, error) {
	var out []StatusCategoryDTO
	err := f.client.Do(ctx, "GET", "/rest/api/3/statuscategory", nil, nil, &out)
	return out, err
}

// GetStatuses fetches all available statuses.
func (f *Fetcher) GetStatuses(ctx context.Context) ([]StatusDTO, error) {
	var out []StatusDTO
	err := f.client.Do(ctx, "GET", "/rest/api/3/status", nil, nil, &out)
	return out, err
}

// GetProject fetches details of a specific project by key.
func (f *Fetcher) GetProject(ctx context.Context, projectKey string) (*ProjectDTO, error) {
	var out ProjectDTO
	err := f.client.Do(ctx, "GET", "/rest/api/3/project/"+url.PathEscape(projectKey), nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchIssues runs a JQL search returning the requested fields.
func (f *Fetcher) SearchIssues(ctx context.Context, jql string, fields []string, start, limit int) (*SearchResponse, error) {
	payload := map[string]any{
		"jql":          jql,
		"fieldsByKeys": false,
		"fields":       fields,
		"startAt":      start,
		"maxResults":   limit,
	}
	var out SearchResponse
	if err := f.client.Do(ctx, "POST", "/rest/api/3/search", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetIssueChangelog fetches one page of an issue's changelog.
func (f *Fetcher) GetIssueChangelog(ctx context.Context, issueID string, start, limit int) (*ChangelogResponse, error) {
	params := url.Values{}
	params.Set("startAt", strconv.Itoa(start))
	params.Set("maxResults", strconv.Itoa(limit))

	var out ChangelogResponse
	path := fmt.Sprintf("/rest/api/3/issue/%s/changelog", url.PathEscape(issueID))
	if err := f.client.Do(ctx, "GET", path, params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
