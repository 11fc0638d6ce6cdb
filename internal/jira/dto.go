package jira

import (
	"strconv"
	"time"
)

// SearchResponse is the top-level container for Jira search results.
type SearchResponse struct {
	Total      int        `json:"total"`
	StartAt    int        `json:"startAt"`
	MaxResults int        `json:"maxResults"`
	Issues     []IssueDTO `json:"issues"`
}

// IssueDTO represents a single issue in the Jira search response.
type IssueDTO struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// FieldString digs a string value out of the dynamic fields map.
func (i IssueDTO) FieldString(name string) string {
	v, _ := i.Fields[name].(string)
	return v
}

// FieldNested digs a nested field value (e.g. issuetype.name).
func (i IssueDTO) FieldNested(name, sub string) string {
	obj, _ := i.Fields[name].(map[string]any)
	if obj == nil {
		return ""
	}
	switch v := obj[sub].(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	}
	return ""
}

// ChangelogResponse is the paginated issue changelog container.
type ChangelogResponse struct {
	Total      int            `json:"total"`
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Values     []ChangeSetDTO `json:"values"`
}

// ChangeSetDTO is a single entry in the changelog: one moment in time with
// one or more field changes.
type ChangeSetDTO struct {
	ID      string    `json:"id"`
	Created string    `json:"created"`
	Items   []ItemDTO `json:"items"`
}

// ItemDTO is a single field change within a changelog entry.
type ItemDTO struct {
	Field      string `json:"field"`
	From       string `json:"from"` // ID
	FromString string `json:"fromString"`
	To         string `json:"to"` // ID
	ToString   string `json:"toString"`
}

// StatusCategoryDTO is a Jira status category (To Do / In Progress / Done).
type StatusCategoryDTO struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// StatusDTO is a status definition with its category reference.
type StatusDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	StatusCategory struct {
		ID int `json:"id"`
	} `json:"statusCategory"`
}

// ProjectDTO is the subset of project metadata the extractor records.
type ProjectDTO struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ParseTime is a helper for the strict Jira time format.
func ParseTime(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05.000-0700", s)
}

func formatNumber(v float64) string {
	// Jira IDs arrive as JSON numbers; render without a fractional part.
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
