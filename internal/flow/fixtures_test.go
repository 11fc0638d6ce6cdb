package flow

import (
	"time"

	"github.com/eamoe/jira-flow-metrics/internal/changelog"
)

// day is shorthand for midnight UTC on a day of January 2024.
// January 1st 2024 is a Monday.
func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// transition builds one real change event.
func transition(issueID int64, key string, created time.Time, changelogID string, toStatus, toCategory string, at time.Time) changelog.ChangeEvent {
	return changelog.ChangeEvent{
		IssueID:       issueID,
		IssueKey:      key,
		IssueType:     "Story",
		IssueCreated:  created,
		IssuePoints:   1,
		ChangelogID:   &changelogID,
		StatusChanged: &at,
		StatusTo:      &toStatus,
		ToCategory:    &toCategory,
	}
}

// withFrom sets the from-side of a transition.
func withFrom(e changelog.ChangeEvent, fromStatus, fromCategory string) changelog.ChangeEvent {
	e.StatusFrom = &fromStatus
	e.FromCategory = &fromCategory
	return e
}

// synthetic builds the placeholder row of an issue with no transitions.
func synthetic(issueID int64, key string, created time.Time) changelog.ChangeEvent {
	return changelog.ChangeEvent{
		IssueID:      issueID,
		IssueKey:     key,
		IssueType:    "Story",
		IssueCreated: created,
		IssuePoints:  1,
	}
}

// startDone builds the common two-transition lifecycle of one issue.
func startDone(issueID int64, key string, created, started, done time.Time) []changelog.ChangeEvent {
	return []changelog.ChangeEvent{
		withFrom(transition(issueID, key, created, key+"-1", "In Progress", changelog.CategoryInProgress, started),
			"To Do", changelog.CategoryToDo),
		withFrom(transition(issueID, key, created, key+"-2", "Done", changelog.CategoryDone, done),
			"In Progress", changelog.CategoryInProgress),
	}
}

func tableOf(events ...[]changelog.ChangeEvent) *changelog.Table {
	t := &changelog.Table{}
	for _, group := range events {
		t.Events = append(t.Events, group...)
	}
	return t
}
