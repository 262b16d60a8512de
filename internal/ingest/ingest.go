// Package ingest normalizes raw issue-tracker exports into canonical issue
// records: stable field names, UTC timestamps, title-cased text values.
package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
)

// RawExport is the raw Jira-style export payload.
type RawExport struct {
	Project RawProject `json:"project"`
	Issues  []RawIssue `json:"issues"`
}

type RawProject struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	ExtractedAt string `json:"extracted_at"`
}

// RawIssue keeps assignee and timestamps as raw JSON: real exports carry them
// either as an object or as a single-element list.
type RawIssue struct {
	ID         json.RawMessage `json:"id"`
	IssueType  string          `json:"issue_type"`
	Status     string          `json:"status"`
	Priority   string          `json:"priority"`
	Assignee   json.RawMessage `json:"assignee"`
	Timestamps json.RawMessage `json:"timestamps"`
}

type rawAssignee struct {
	ID    json.RawMessage `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
}

type rawTimestamps struct {
	CreatedAt  string `json:"created_at"`
	ResolvedAt string `json:"resolved_at"`
}

// InvalidRecord identifies one raw issue that could not be normalized.
type InvalidRecord struct {
	IssueID string
	Reason  string
}

// Normalize converts a raw export into canonical issues. Records missing an id
// or a parseable created_at are skipped and reported; an unparseable or absent
// resolved_at is coerced to nil, leaving the issue open.
func Normalize(export *RawExport) ([]models.Issue, []InvalidRecord) {
	issues := make([]models.Issue, 0, len(export.Issues))
	var invalid []InvalidRecord

	for _, raw := range export.Issues {
		id := idString(raw.ID)
		if id == "" {
			invalid = append(invalid, InvalidRecord{Reason: "missing issue id"})
			continue
		}

		ts, err := decodeObjectOrList[rawTimestamps](raw.Timestamps)
		if err != nil {
			invalid = append(invalid, InvalidRecord{IssueID: id, Reason: fmt.Sprintf("bad timestamps: %v", err)})
			continue
		}

		createdAt, err := parseTimestamp(ts.CreatedAt)
		if err != nil {
			invalid = append(invalid, InvalidRecord{IssueID: id, Reason: fmt.Sprintf("bad created_at %q", ts.CreatedAt)})
			continue
		}

		var resolvedAt *time.Time
		if t, err := parseTimestamp(ts.ResolvedAt); err == nil {
			resolvedAt = &t
		}

		assignee, err := decodeObjectOrList[rawAssignee](raw.Assignee)
		if err != nil {
			invalid = append(invalid, InvalidRecord{IssueID: id, Reason: fmt.Sprintf("bad assignee: %v", err)})
			continue
		}

		issues = append(issues, models.Issue{
			ID:            id,
			IssueType:     titleCase(raw.IssueType),
			Status:        titleCase(raw.Status),
			Priority:      titleCase(raw.Priority),
			AssigneeID:    idString(assignee.ID),
			AssigneeName:  titleCase(assignee.Name),
			AssigneeEmail: strings.ToLower(strings.TrimSpace(assignee.Email)),
			CreatedAt:     createdAt,
			ResolvedAt:    resolvedAt,
		})
	}

	return issues, invalid
}

// decodeObjectOrList accepts `{...}`, `[{...}, ...]` (first element wins),
// null, or absent.
func decodeObjectOrList[T any](raw json.RawMessage) (T, error) {
	var zero T
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return zero, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return zero, err
		}
		if len(list) == 0 {
			return zero, nil
		}
		return list[0], nil
	}

	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return zero, err
	}
	return one, nil
}

// idString accepts ids exported either as JSON strings or numbers.
func idString(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
