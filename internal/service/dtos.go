package service

// GroupReportRow is one row of a grouped SLA report (by analyst or by type).
type GroupReportRow struct {
	Key                string
	IssueCount         int
	AvgResolutionHours float64
}

// DistributionRow is one row of the met-vs-violated distribution.
type DistributionRow struct {
	SlaMet     bool
	IssueCount int
	Percentage float64
}

// SlaDistribution is the full compliance distribution. An empty input yields
// Total 0 and no rows; percentages are never computed against a zero total.
type SlaDistribution struct {
	Total int
	Rows  []DistributionRow
}

// RecordError identifies one issue that could not be classified and why.
type RecordError struct {
	IssueID string
	Reason  string
}

// RunSummary reports the outcome of one classification run.
type RunSummary struct {
	TotalIssues     int
	ClassifiedCount int
	Errors          []RecordError
}

// ImportSummary reports the outcome of one raw-export import.
type ImportSummary struct {
	ImportedCount int
	Skipped       []RecordError
}
