package httpapi

import (
	"time"

	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
	"github.com/ebjrabc/fasttrack-sla/internal/service"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// classifiedIssueDTO mirrors the documented data dictionary column for column.
type classifiedIssueDTO struct {
	IssueID          string  `json:"issue_id"`
	IssueType        string  `json:"issue_type"`
	Status           string  `json:"status"`
	Priority         string  `json:"priority"`
	AssigneeID       string  `json:"assignee_id"`
	AssigneeName     string  `json:"assignee_name"`
	AssigneeEmail    string  `json:"assignee_email"`
	CreatedAt        string  `json:"created_at"`
	ResolvedAt       string  `json:"resolved_at"`
	ResolutionHours  float64 `json:"resolution_hours"`
	SlaExpectedHours float64 `json:"sla_expected_hours"`
	IsSlaMet         bool    `json:"is_sla_met"`
}

func mapClassifiedIssue(ci models.ClassifiedIssue) classifiedIssueDTO {
	dto := classifiedIssueDTO{
		IssueID:          ci.ID,
		IssueType:        ci.IssueType,
		Status:           ci.Status,
		Priority:         ci.Priority,
		AssigneeID:       ci.AssigneeID,
		AssigneeName:     ci.AssigneeName,
		AssigneeEmail:    ci.AssigneeEmail,
		CreatedAt:        formatTimestamp(ci.CreatedAt),
		ResolutionHours:  ci.ResolutionHours,
		SlaExpectedHours: ci.SlaExpectedHours,
		IsSlaMet:         ci.IsSlaMet,
	}
	if ci.ResolvedAt != nil {
		dto.ResolvedAt = formatTimestamp(*ci.ResolvedAt)
	}
	return dto
}

func mapClassifiedIssues(rows []models.ClassifiedIssue) []classifiedIssueDTO {
	out := make([]classifiedIssueDTO, 0, len(rows))
	for _, ci := range rows {
		out = append(out, mapClassifiedIssue(ci))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

type analystReportRowDTO struct {
	AssigneeName       string  `json:"assignee_name"`
	IssueCount         int     `json:"issue_count"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

func mapAnalystRows(rows []service.GroupReportRow) []analystReportRowDTO {
	out := make([]analystReportRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, analystReportRowDTO{
			AssigneeName:       r.Key,
			IssueCount:         r.IssueCount,
			AvgResolutionHours: r.AvgResolutionHours,
		})
	}
	return out
}

type issueTypeReportRowDTO struct {
	IssueType          string  `json:"issue_type"`
	IssueCount         int     `json:"issue_count"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

func mapIssueTypeRows(rows []service.GroupReportRow) []issueTypeReportRowDTO {
	out := make([]issueTypeReportRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, issueTypeReportRowDTO{
			IssueType:          r.Key,
			IssueCount:         r.IssueCount,
			AvgResolutionHours: r.AvgResolutionHours,
		})
	}
	return out
}

type distributionRowDTO struct {
	IsSlaMet   bool    `json:"is_sla_met"`
	IssueCount int     `json:"issue_count"`
	Percentage float64 `json:"percentage"`
}

type distributionDTO struct {
	Total int                  `json:"total"`
	Rows  []distributionRowDTO `json:"rows"`
}

func mapDistribution(d service.SlaDistribution) distributionDTO {
	rows := make([]distributionRowDTO, 0, len(d.Rows))
	for _, r := range d.Rows {
		rows = append(rows, distributionRowDTO{
			IsSlaMet:   r.SlaMet,
			IssueCount: r.IssueCount,
			Percentage: r.Percentage,
		})
	}
	return distributionDTO{Total: d.Total, Rows: rows}
}

type recordErrorDTO struct {
	IssueID string `json:"issue_id"`
	Reason  string `json:"reason"`
}

func mapRecordErrors(errs []service.RecordError) []recordErrorDTO {
	out := make([]recordErrorDTO, 0, len(errs))
	for _, e := range errs {
		out = append(out, recordErrorDTO{IssueID: e.IssueID, Reason: e.Reason})
	}
	return out
}

type runSummaryDTO struct {
	TotalIssues     int              `json:"total_issues"`
	ClassifiedCount int              `json:"classified_count"`
	Errors          []recordErrorDTO `json:"errors"`
}

type importSummaryDTO struct {
	ImportedCount int              `json:"imported_count"`
	Skipped       []recordErrorDTO `json:"skipped"`
}
