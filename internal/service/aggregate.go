package service

import (
	"math"
	"sort"

	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
)

// The aggregations below are pure reductions: sums and counts only, with rows
// sorted by group key, so output is identical for any permutation of input.

// AggregateByAnalyst groups classified issues by assignee name.
func AggregateByAnalyst(issues []models.ClassifiedIssue) []GroupReportRow {
	return aggregateBy(issues, func(ci models.ClassifiedIssue) string { return ci.AssigneeName })
}

// AggregateByIssueType groups classified issues by issue type.
func AggregateByIssueType(issues []models.ClassifiedIssue) []GroupReportRow {
	return aggregateBy(issues, func(ci models.ClassifiedIssue) string { return ci.IssueType })
}

func aggregateBy(issues []models.ClassifiedIssue, keyOf func(models.ClassifiedIssue) string) []GroupReportRow {
	type acc struct {
		count int
		sum   float64
	}
	groups := make(map[string]*acc)
	for _, ci := range issues {
		key := keyOf(ci)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.count++
		g.sum += ci.ResolutionHours
	}

	rows := make([]GroupReportRow, 0, len(groups))
	for key, g := range groups {
		rows = append(rows, GroupReportRow{
			Key:                key,
			IssueCount:         g.count,
			AvgResolutionHours: g.sum / float64(g.count),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// Distribution counts met and violated issues. Percentages are rounded to two
// decimals and only groups actually present appear, met before violated.
func Distribution(issues []models.ClassifiedIssue) SlaDistribution {
	total := len(issues)
	if total == 0 {
		return SlaDistribution{Total: 0, Rows: []DistributionRow{}}
	}

	var met int
	for _, ci := range issues {
		if ci.IsSlaMet {
			met++
		}
	}

	rows := make([]DistributionRow, 0, 2)
	if met > 0 {
		rows = append(rows, distributionRow(true, met, total))
	}
	if violated := total - met; violated > 0 {
		rows = append(rows, distributionRow(false, violated, total))
	}
	return SlaDistribution{Total: total, Rows: rows}
}

func distributionRow(slaMet bool, count, total int) DistributionRow {
	pct := float64(count) / float64(total) * 100.0
	return DistributionRow{
		SlaMet:     slaMet,
		IssueCount: count,
		Percentage: math.Round(pct*100) / 100,
	}
}
