package models

import "time"

// Issue is a normalized issue-tracker record as produced by the ingest stage.
// ResolvedAt is nil for issues that are still open.
type Issue struct {
	ID            string
	IssueType     string
	Status        string
	Priority      string
	AssigneeID    string
	AssigneeName  string
	AssigneeEmail string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// ClassifiedIssue is an Issue augmented with the computed SLA columns.
// Rows are written once per classification run and never mutated.
type ClassifiedIssue struct {
	Issue
	ResolutionHours  float64
	SlaExpectedHours float64
	IsSlaMet         bool
}
