package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ebjrabc/fasttrack-sla/internal/repository/models"
)

// IssueRepository persists normalized issues and their classified SLA rows.
type IssueRepository struct {
	db *sql.DB
}

func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS issues (
	issue_id       TEXT PRIMARY KEY,
	issue_type     TEXT NOT NULL,
	status         TEXT NOT NULL,
	priority       TEXT NOT NULL,
	assignee_id    TEXT,
	assignee_name  TEXT,
	assignee_email TEXT,
	created_at     TEXT NOT NULL,
	resolved_at    TEXT
);
CREATE TABLE IF NOT EXISTS classified_issues (
	issue_id           TEXT PRIMARY KEY,
	issue_type         TEXT NOT NULL,
	status             TEXT NOT NULL,
	priority           TEXT NOT NULL,
	assignee_id        TEXT,
	assignee_name      TEXT,
	assignee_email     TEXT,
	created_at         TEXT NOT NULL,
	resolved_at        TEXT NOT NULL,
	resolution_hours   REAL NOT NULL,
	sla_expected_hours REAL NOT NULL,
	is_sla_met         INTEGER NOT NULL
);
`

// Migrate creates the schema if it does not exist yet.
func (r *IssueRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// UpsertIssues inserts or replaces normalized issues in one transaction.
func (r *IssueRepository) UpsertIssues(ctx context.Context, issues []models.Issue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin UpsertIssues: %w", err)
	}
	defer tx.Rollback()

	const stmt = `
		INSERT OR REPLACE INTO issues
			(issue_id, issue_type, status, priority, assignee_id, assignee_name, assignee_email, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, is := range issues {
		var resolved any
		if is.ResolvedAt != nil {
			resolved = is.ResolvedAt.UTC().Format(time.RFC3339)
		}
		if _, err := tx.ExecContext(ctx, stmt,
			is.ID, is.IssueType, is.Status, is.Priority,
			is.AssigneeID, is.AssigneeName, is.AssigneeEmail,
			is.CreatedAt.UTC().Format(time.RFC3339), resolved,
		); err != nil {
			return fmt.Errorf("insert issue %s: %w", is.ID, err)
		}
	}

	return tx.Commit()
}

// ListResolvedIssues returns completed issues only: Done or Resolved status
// with a resolution timestamp present.
func (r *IssueRepository) ListResolvedIssues(ctx context.Context) ([]models.Issue, error) {
	const query = `
		SELECT issue_id, issue_type, status, priority, assignee_id, assignee_name, assignee_email, created_at, resolved_at
		FROM issues
		WHERE status IN ('Done', 'Resolved') AND resolved_at IS NOT NULL
		ORDER BY issue_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListResolvedIssues: %w", err)
	}
	defer rows.Close()

	var results []models.Issue
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ListResolvedIssues row: %w", err)
		}
		results = append(results, is)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListResolvedIssues: %w", err)
	}
	return results, nil
}

// ReplaceClassified rewrites the classified rows wholesale in one transaction.
// The classified set is recomputed per run, never mutated incrementally.
func (r *IssueRepository) ReplaceClassified(ctx context.Context, rows []models.ClassifiedIssue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ReplaceClassified: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM classified_issues`); err != nil {
		return fmt.Errorf("clear classified_issues: %w", err)
	}

	const stmt = `
		INSERT INTO classified_issues
			(issue_id, issue_type, status, priority, assignee_id, assignee_name, assignee_email,
			 created_at, resolved_at, resolution_hours, sla_expected_hours, is_sla_met)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, ci := range rows {
		if ci.ResolvedAt == nil {
			return fmt.Errorf("classified issue %s has no resolved_at", ci.ID)
		}
		if _, err := tx.ExecContext(ctx, stmt,
			ci.ID, ci.IssueType, ci.Status, ci.Priority,
			ci.AssigneeID, ci.AssigneeName, ci.AssigneeEmail,
			ci.CreatedAt.UTC().Format(time.RFC3339), ci.ResolvedAt.UTC().Format(time.RFC3339),
			ci.ResolutionHours, ci.SlaExpectedHours, ci.IsSlaMet,
		); err != nil {
			return fmt.Errorf("insert classified issue %s: %w", ci.ID, err)
		}
	}

	return tx.Commit()
}

// ListClassified returns all classified rows ordered by issue id.
func (r *IssueRepository) ListClassified(ctx context.Context) ([]models.ClassifiedIssue, error) {
	const query = `
		SELECT issue_id, issue_type, status, priority, assignee_id, assignee_name, assignee_email,
		       created_at, resolved_at, resolution_hours, sla_expected_hours, is_sla_met
		FROM classified_issues
		ORDER BY issue_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListClassified: %w", err)
	}
	defer rows.Close()

	var results []models.ClassifiedIssue
	for rows.Next() {
		var (
			ci        models.ClassifiedIssue
			createdAt string
			resolved  string
		)
		if err := rows.Scan(
			&ci.ID, &ci.IssueType, &ci.Status, &ci.Priority,
			&ci.AssigneeID, &ci.AssigneeName, &ci.AssigneeEmail,
			&createdAt, &resolved, &ci.ResolutionHours, &ci.SlaExpectedHours, &ci.IsSlaMet,
		); err != nil {
			return nil, fmt.Errorf("scan ListClassified row: %w", err)
		}

		if ci.CreatedAt, err = parseStoredTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", ci.ID, err)
		}
		t, err := parseStoredTime(resolved)
		if err != nil {
			return nil, fmt.Errorf("parse resolved_at for %s: %w", ci.ID, err)
		}
		ci.ResolvedAt = &t

		results = append(results, ci)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListClassified: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (models.Issue, error) {
	var (
		is        models.Issue
		createdAt string
		resolved  sql.NullString
	)
	if err := row.Scan(
		&is.ID, &is.IssueType, &is.Status, &is.Priority,
		&is.AssigneeID, &is.AssigneeName, &is.AssigneeEmail,
		&createdAt, &resolved,
	); err != nil {
		return models.Issue{}, err
	}

	var err error
	if is.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return models.Issue{}, err
	}
	if resolved.Valid {
		t, err := parseStoredTime(resolved.String)
		if err != nil {
			return models.Issue{}, err
		}
		is.ResolvedAt = &t
	}
	return is, nil
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
